package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/backend/internal/api"
	"fitcoach/backend/internal/config"
	"fitcoach/backend/internal/llm"
	"fitcoach/backend/internal/logging"
	"fitcoach/backend/internal/metrics"
	"fitcoach/backend/internal/repository"
	"fitcoach/backend/internal/repository/mongo"
	"fitcoach/backend/internal/repository/sqlstore"
	"fitcoach/backend/internal/service"
	"fitcoach/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type repositories struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	catalog  repository.CatalogRepository
	workouts repository.WorkoutRepository
	close    func()
}

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   true,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})
	log.Infof("starting fitcoach backend, storage driver: %s", cfg.Database.Driver)

	// --- Storage ---
	repos, err := openRepositories(cfg.Database)
	if err != nil {
		log.Fatalf("could not open storage: %s", err)
	}
	defer repos.close()

	var archive storage.PlanArchive
	if cfg.Archive.Enabled {
		archive, err = storage.NewS3Archive(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize plan archive: %s", err)
		}
	}

	// --- Generative model ---
	requester, err := llm.NewRequester(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Seed:    cfg.Generation.Seed,
		Timeout: cfg.Generation.Timeout,
	})
	if err != nil {
		log.Fatalf("failed to initialize plan requester: %s", err)
	}

	metricsManager := metrics.NewManager("fitcoach", "server", prometheus.DefaultRegisterer)

	// --- Services ---
	authService := service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration)
	profileService := service.NewProfileService(repos.profiles, repos.catalog)
	catalogService := service.NewCatalogService(repos.catalog)
	workoutService := service.NewWorkoutService(repos.workouts)
	planService := service.NewPlanService(service.PlanServiceParams{
		ProfileRepo: repos.profiles,
		CatalogRepo: repos.catalog,
		Requester:   requester,
		Persister:   service.NewPlanPersister(repos.workouts),
		Archive:     archive,
		Metrics:     metricsManager,
		Retry: service.RetryPolicy{
			MaxRetries: cfg.Generation.MaxRetries,
			Delay:      cfg.Generation.RetryDelay,
		},
	})

	// --- Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.LogRequest(), api.RequestMetrics(metricsManager))
	api.SetupRoutes(router, cfg.JWT.Secret, authService, profileService, catalogService, workoutService, planService)

	// Generation may take two upstream attempts plus the retry delay.
	writeTimeout := 2*cfg.Generation.Timeout + cfg.Generation.RetryDelay + 30*time.Second
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Info("server exiting")
}

func openRepositories(cfg config.DatabaseConfig) (*repositories, error) {
	switch cfg.Driver {
	case "", "mongo":
		return openMongo(cfg)
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		db, err := sqlstore.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:    sqlstore.NewUserRepository(db),
			profiles: sqlstore.NewProfileRepository(db),
			catalog:  sqlstore.NewCatalogRepository(db),
			workouts: sqlstore.NewWorkoutRepository(db),
			close: func() {
				if err := sqlstore.Close(db); err != nil {
					log.Errorf("failed to close %s: %s", cfg.Driver, err)
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openMongo(cfg config.DatabaseConfig) (*repositories, error) {
	client, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return nil, err
	}
	appDB := client.Database(cfg.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
		log.Warnf("failed to ensure indexes: %s", err)
	}

	catalog := mongo.NewMongoCatalogRepository(appDB)
	return &repositories{
		users:    mongo.NewMongoUserRepository(appDB),
		profiles: mongo.NewMongoProfileRepository(appDB, catalog),
		catalog:  catalog,
		workouts: mongo.NewMongoWorkoutRepository(appDB),
		close: func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect MongoDB: %s", err)
			}
		},
	}, nil
}
