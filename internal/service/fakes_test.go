package service

import (
	"context"
	"sync"
	"time"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"
)

func int64Ptr(v int64) *int64 { return &v }

// --- profiles ---

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[int64]*domain.Profile
	getErr   error
	nextID   int64
}

func newFakeProfileRepo(profiles ...*domain.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[int64]*domain.Profile{}}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func copyProfile(p *domain.Profile) *domain.Profile {
	cp := *p
	cp.Equipment = append([]domain.Equipment(nil), p.Equipment...)
	cp.Injuries = append([]domain.Injury(nil), p.Injuries...)
	return &cp
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.Profile) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
	} else {
		r.nextID++
		profile.ID = r.nextID
	}
	r.profiles[profile.UserID] = copyProfile(profile)
	return profile.ID, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID int64) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProfile(p), nil
}

// --- catalog ---

type fakeCatalogRepo struct {
	exercises []domain.Exercise
	equipment []domain.Equipment
	injuries  []domain.Injury
	listErr   error
}

func (r *fakeCatalogRepo) ListExercises(context.Context) ([]domain.Exercise, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Exercise(nil), r.exercises...), nil
}

func (r *fakeCatalogRepo) ListEquipment(context.Context) ([]domain.Equipment, error) {
	return r.equipment, nil
}

func (r *fakeCatalogRepo) ListInjuries(context.Context) ([]domain.Injury, error) {
	return r.injuries, nil
}

func (r *fakeCatalogRepo) GetEquipmentByName(_ context.Context, name string) (*domain.Equipment, error) {
	for _, e := range r.equipment {
		if e.Name == name {
			eq := e
			return &eq, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) GetEquipmentByIDs(_ context.Context, ids []int64) ([]domain.Equipment, error) {
	out := []domain.Equipment{}
	for _, e := range r.equipment {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) GetInjuriesByIDs(_ context.Context, ids []int64) ([]domain.Injury, error) {
	out := []domain.Injury{}
	for _, i := range r.injuries {
		for _, id := range ids {
			if i.ID == id {
				out = append(out, i)
			}
		}
	}
	return out, nil
}

// --- workouts ---

// fakeWorkoutRepo commits a batch only when every record fits, mirroring a
// transactional store. failAfter < 0 disables failure injection.
type fakeWorkoutRepo struct {
	mu        sync.Mutex
	records   []domain.WorkoutRecord
	nextID    int64
	failAfter int
	err       error
	ctxErrs   []error
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{failAfter: -1}
}

func (r *fakeWorkoutRepo) CreateBatch(ctx context.Context, records []domain.WorkoutRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())

	staged := make([]domain.WorkoutRecord, 0, len(records))
	id := r.nextID
	for i, rec := range records {
		if r.failAfter >= 0 && i >= r.failAfter {
			return r.err
		}
		id++
		rec.ID = id
		rec.CreatedAt = time.Now()
		staged = append(staged, rec)
	}

	r.nextID = id
	r.records = append(r.records, staged...)
	for i := range records {
		records[i].ID = staged[i].ID
		records[i].CreatedAt = staged[i].CreatedAt
	}
	return nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id int64) (*domain.WorkoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) ListByUser(_ context.Context, userID int64) ([]domain.WorkoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.WorkoutRecord{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return 0, repository.ErrDuplicate
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[user.Email] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- generative model ---

type fakeResponse struct {
	raw string
	err error
}

// fakeRequester replays responses in order; the last one repeats.
type fakeRequester struct {
	mu        sync.Mutex
	responses []fakeResponse
	payloads  []string
}

func (f *fakeRequester) RequestPlan(_ context.Context, payload string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	i := len(f.payloads) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i].raw, f.responses[i].err
}

func (f *fakeRequester) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

// --- archive ---

type fakeArchive struct {
	mu   sync.Mutex
	raws [][]byte
	err  error
}

func (a *fakeArchive) ArchiveRawPlan(_ context.Context, userID int64, startDate time.Time, raw []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.raws = append(a.raws, raw)
	if a.err != nil {
		return "", a.err
	}
	return "plans/key.json", nil
}

// --- fixtures ---

var (
	eqBodyweight = domain.Equipment{ID: 1, Name: domain.BaselineEquipmentName}
	eqDumbbells  = domain.Equipment{ID: 2, Name: "dumbbells"}
	eqBarbell    = domain.Equipment{ID: 3, Name: "barbell"}
	eqCable      = domain.Equipment{ID: 4, Name: "cable machine"}
)

func exercise(id int64, name, muscle string, eq *domain.Equipment) domain.Exercise {
	e := domain.Exercise{ID: id, Name: name, TargetMuscle: muscle}
	if eq != nil {
		e.EquipmentID = int64Ptr(eq.ID)
		cp := *eq
		e.Equipment = &cp
	}
	return e
}

// testCatalog has 10 exercises; 6 of them fit a dumbbells + bodyweight profile.
func testCatalog() []domain.Exercise {
	return []domain.Exercise{
		exercise(1, "Push-up", "chest", nil),
		exercise(2, "Dumbbell Curl", "biceps", &eqDumbbells),
		exercise(3, "Dumbbell Shoulder Press", "shoulders", &eqDumbbells),
		exercise(4, "Bodyweight Squat", "quadriceps", &eqBodyweight),
		exercise(5, "Walking Lunge", "glutes", &eqBodyweight),
		exercise(6, "Goblet Squat", "quadriceps", &eqDumbbells),
		exercise(7, "Barbell Row", "back", &eqBarbell),
		exercise(8, "Bench Press", "chest", &eqBarbell),
		exercise(9, "Cable Fly", "chest", &eqCable),
		exercise(10, "Deadlift", "hamstrings", &eqBarbell),
	}
}

func testCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		exercises: testCatalog(),
		equipment: []domain.Equipment{eqBodyweight, eqDumbbells, eqBarbell, eqCable},
		injuries:  []domain.Injury{{ID: 1, Name: "lower back"}, {ID: 2, Name: "knee"}},
	}
}

func testProfile(userID int64) *domain.Profile {
	return &domain.Profile{
		ID:              userID,
		UserID:          userID,
		FirstName:       "Anna",
		LastName:        "Smith",
		BirthDate:       time.Date(1992, 6, 1, 0, 0, 0, 0, time.UTC),
		Gender:          domain.GenderFemale,
		HeightCM:        168.5,
		WeightKG:        61,
		ExperienceLevel: domain.ExperienceIntermediate,
		Goal:            domain.GoalBulk,
		Frequency:       4,
		Equipment:       []domain.Equipment{eqDumbbells},
		Injuries:        []domain.Injury{{ID: 2, Name: "knee"}},
	}
}

const validOneDayPlan = `{
  "weeks": [
    {
      "week_number": 1,
      "days": [
        {
          "day_number": 1,
          "date_offset": 0,
          "exercises": [
            {"exercise_id": 1, "name": "Push-up", "sets": 3, "reps": "10-12", "suggested_weight": "bodyweight", "suggested_rest_period": "60 seconds", "notes": "Keep the core tight"},
            {"exercise_id": 2, "name": "Dumbbell Curl", "sets": 3, "reps": "8-10", "suggested_weight": "10kg", "suggested_rest_period": "60 seconds"},
            {"exercise_id": 3, "name": "Dumbbell Shoulder Press", "sets": 4, "reps": "8", "suggested_weight": "12kg", "suggested_rest_period": "90 seconds"},
            {"exercise_id": 4, "name": "Bodyweight Squat", "sets": 3, "reps": "15", "suggested_weight": "bodyweight", "suggested_rest_period": "45 seconds"},
            {"exercise_id": 5, "name": "Walking Lunge", "sets": 3, "reps": "12 each leg", "suggested_weight": "bodyweight", "suggested_rest_period": "60 seconds"}
          ]
        }
      ]
    }
  ]
}`
