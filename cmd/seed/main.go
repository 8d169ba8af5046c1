package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fitcoach/backend/internal/config"
	"fitcoach/backend/internal/logging"
	"fitcoach/backend/internal/repository"
	"fitcoach/backend/internal/repository/mongo"
	"fitcoach/backend/internal/repository/sqlstore"
	"fitcoach/backend/internal/seed"

	log "github.com/sirupsen/logrus"
)

// Loads the exercise catalog, equipment and injuries into the configured
// database, replacing what is there.
func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml")
	exercisesPath := flag.String("exercises", "data/gym_exercises.csv", "exercise sheet, .csv or .json")
	injuriesPath := flag.String("injuries", "data/injuries.json", "injuries list, JSON array of {\"name\": ...}")
	equipmentPath := flag.String("equipment", "", "optional extra equipment, JSON array of {\"name\": ...}")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("could not load config: %s\n", err)
		os.Exit(1)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogToStdout:   true,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})

	catalog, err := seed.Load(seed.Files{
		Exercises: *exercisesPath,
		Injuries:  *injuriesPath,
		Equipment: *equipmentPath,
	})
	if err != nil {
		log.Fatalf("failed to load seed files: %s", err)
	}
	log.Infof("seed loaded: %d equipment, %d exercises, %d injuries",
		len(catalog.Equipment), len(catalog.Exercises), len(catalog.Injuries))

	seeder, closeDB, err := openSeeder(cfg.Database)
	if err != nil {
		log.Fatalf("could not open storage: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	err = seeder.ReplaceCatalog(ctx, catalog)
	cancel()
	closeDB()
	if err != nil {
		log.Errorf("failed to replace catalog: %s", err)
		os.Exit(1)
	}
	log.Infof("catalog replaced in %s storage", cfg.Database.Driver)
}

func openSeeder(cfg config.DatabaseConfig) (repository.CatalogSeeder, func(), error) {
	switch cfg.Driver {
	case "", "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Name)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			log.Warnf("failed to ensure indexes: %s", err)
		}
		return mongo.NewMongoCatalogSeeder(db), func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect MongoDB: %s", err)
			}
		}, nil
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		db, err := sqlstore.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlstore.NewCatalogSeeder(db), func() {
			if err := sqlstore.Close(db); err != nil {
				log.Errorf("failed to close %s: %s", cfg.Driver, err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
