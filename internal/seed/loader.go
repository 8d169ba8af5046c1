package seed

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fitcoach/backend/internal/domain"

	log "github.com/sirupsen/logrus"
)

var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// Accepted header names per exercise column, compared case-insensitively.
var exerciseColumns = map[string][]string{
	"name":      {"exercise_name", "name"},
	"muscle":    {"muscle_gp", "target_muscle", "muscle"},
	"equipment": {"equipment"},
	"tier":      {"difficulty_tier", "difficulty"},
}

// Files names the seed inputs. Exercises may be CSV or JSON; the other two
// are JSON arrays of {"name": ...} objects. Empty paths are skipped.
type Files struct {
	Exercises string
	Injuries  string
	Equipment string
}

type exerciseJSON struct {
	Name           string `json:"name"`
	TargetMuscle   string `json:"target_muscle"`
	Equipment      string `json:"equipment"`
	DifficultyTier *int   `json:"difficulty_tier"`
}

type namedJSON struct {
	Name string `json:"name"`
}

// Load reads every configured file and returns the normalized seed.
func Load(files Files) (*domain.CatalogSeed, error) {
	seed := &domain.CatalogSeed{}

	if files.Exercises != "" {
		exercises, err := readFile(files.Exercises, func(r io.Reader) ([]domain.SeedExercise, error) {
			switch strings.ToLower(filepath.Ext(files.Exercises)) {
			case ".csv":
				return ReadExercisesCSV(r)
			case ".json":
				return ReadExercisesJSON(r)
			default:
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, files.Exercises)
			}
		})
		if err != nil {
			return nil, err
		}
		seed.Exercises = exercises
	}
	if files.Injuries != "" {
		injuries, err := readFile(files.Injuries, ReadNamesJSON)
		if err != nil {
			return nil, err
		}
		seed.Injuries = injuries
	}
	if files.Equipment != "" {
		equipment, err := readFile(files.Equipment, ReadNamesJSON)
		if err != nil {
			return nil, err
		}
		seed.Equipment = equipment
	}

	if err := seed.Normalize(); err != nil {
		return nil, err
	}
	return seed, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	log.Debugf("seed file %s loaded", path)
	return out, nil
}

// ReadExercisesCSV reads a comma separated exercise sheet with a header row.
// The name and muscle columns are required, equipment and difficulty are optional.
func ReadExercisesCSV(r io.Reader) ([]domain.SeedExercise, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}
	index := columnIndex(header)
	for _, required := range []string{"name", "muscle"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing %q column, want one of %v", required, exerciseColumns[required])
		}
	}
	// Rows may be shorter than the header; missing cells read as empty.
	reader.FieldsPerRecord = -1

	var exercises []domain.SeedExercise
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blankRecord(record) {
			continue
		}

		field := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		exercise := domain.SeedExercise{
			Name:          field("name"),
			TargetMuscle:  field("muscle"),
			EquipmentName: field("equipment"),
		}
		if tier := field("tier"); tier != "" {
			n, err := strconv.Atoi(tier)
			if err != nil {
				return nil, fmt.Errorf("line %d: difficulty %q is not a number", line, tier)
			}
			exercise.DifficultyTier = &n
		}
		exercises = append(exercises, exercise)
	}
	return exercises, nil
}

// ReadExercisesJSON reads an array of exercise objects.
func ReadExercisesJSON(r io.Reader) ([]domain.SeedExercise, error) {
	var items []exerciseJSON
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, err
	}
	exercises := make([]domain.SeedExercise, 0, len(items))
	for _, item := range items {
		exercises = append(exercises, domain.SeedExercise{
			Name:           item.Name,
			TargetMuscle:   item.TargetMuscle,
			EquipmentName:  item.Equipment,
			DifficultyTier: item.DifficultyTier,
		})
	}
	return exercises, nil
}

// ReadNamesJSON reads an array of {"name": ...} objects, the injuries.json layout.
func ReadNamesJSON(r io.Reader) ([]string, error) {
	var items []namedJSON
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(exerciseColumns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for column, aliases := range exerciseColumns {
			if _, taken := index[column]; taken {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					index[column] = i
				}
			}
		}
	}
	return index
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
