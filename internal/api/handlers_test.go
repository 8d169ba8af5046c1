package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/metrics"
	"fitcoach/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

// --- fakes ---

type fakeAuthService struct {
	registerErr error
	loginErr    error
}

func (f *fakeAuthService) Register(_ context.Context, email, _ string) (*domain.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: 1, Email: email}, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "token-123", &domain.User{ID: 1, Email: email}, nil
}

func (f *fakeAuthService) GetJWTSecret() string { return testSecret }

type fakeProfileService struct {
	input   service.ProfileInput
	userID  int64
	err     error
	profile *domain.Profile
}

func (f *fakeProfileService) UpsertProfile(_ context.Context, userID int64, input service.ProfileInput) (*domain.Profile, error) {
	f.userID = userID
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Profile{UserID: userID, FirstName: input.FirstName}, nil
}

func (f *fakeProfileService) GetProfile(_ context.Context, userID int64) (*domain.Profile, error) {
	if f.profile == nil {
		return nil, service.ErrProfileNotFound
	}
	return f.profile, nil
}

type fakeCatalogService struct{}

func (fakeCatalogService) ListExercises(context.Context) ([]domain.Exercise, error) {
	return []domain.Exercise{{ID: 1, Name: "Push-up", TargetMuscle: "chest"}}, nil
}

func (fakeCatalogService) ListEquipment(context.Context) ([]domain.Equipment, error) {
	return []domain.Equipment{{ID: 1, Name: domain.BaselineEquipmentName}}, nil
}

func (fakeCatalogService) ListInjuries(context.Context) ([]domain.Injury, error) {
	return []domain.Injury{{ID: 1, Name: "knee"}}, nil
}

type fakeWorkoutService struct {
	records []domain.WorkoutRecord
}

func (f *fakeWorkoutService) ListWorkouts(_ context.Context, userID int64) ([]domain.WorkoutRecord, error) {
	out := []domain.WorkoutRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWorkoutService) GetWorkout(_ context.Context, userID, workoutID int64) (*domain.WorkoutRecord, error) {
	for _, r := range f.records {
		if r.ID == workoutID && r.UserID == userID {
			rec := r
			return &rec, nil
		}
	}
	return nil, service.ErrWorkoutNotFound
}

type fakePlanService struct {
	plan *domain.GeneratedPlan
	err  error
}

func (f *fakePlanService) GeneratePlan(context.Context, int64) (*domain.GeneratedPlan, error) {
	return f.plan, f.err
}

// --- helpers ---

type testServer struct {
	router   *gin.Engine
	profiles *fakeProfileService
	plans    *fakePlanService
	auth     *fakeAuthService
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		router:   gin.New(),
		profiles: &fakeProfileService{},
		plans:    &fakePlanService{},
		auth:     &fakeAuthService{},
	}
	workouts := &fakeWorkoutService{records: []domain.WorkoutRecord{
		{ID: 10, UserID: 7, Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{ID: 11, UserID: 8, Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
	}}
	SetupRoutes(s.router, testSecret, s.auth, s.profiles, fakeCatalogService{}, workouts, s.plans)
	return s
}

func signedToken(t *testing.T, userID int64, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := &service.JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestPing(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer()

	testCases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, 7, "other-secret", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signedToken(t, 7, testSecret, -time.Minute), http.StatusUnauthorized},
		{"no user", "Bearer " + signedToken(t, 0, testSecret, time.Hour), http.StatusUnauthorized},
		{"valid", "Bearer " + signedToken(t, 7, testSecret, time.Hour), http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestAuthHandlers(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "anna@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"anna@example.com"`)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "not-an-email", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.auth.registerErr = service.ErrUserAlreadyExists
	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "anna@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "anna@example.com", "password": "pw"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "token-123", login.Token)

	s.auth.loginErr = service.ErrAuthenticationFailed
	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "anna@example.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodGet, "/api/v1/catalog/equipment", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"bodyweight"}]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/catalog/injuries", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/catalog/exercises", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/catalog/exercises", signedToken(t, 7, testSecret, time.Hour), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Push-up")
}

func TestProfileHandlers(t *testing.T) {
	s := newTestServer()
	token := signedToken(t, 7, testSecret, time.Hour)

	rec := s.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := gin.H{
		"firstName":       "Anna",
		"lastName":        "Smith",
		"birthDate":       "1992-06-01",
		"gender":          "female",
		"heightCm":        168,
		"weightKg":        61,
		"experienceLevel": "beginner",
		"goal":            "cut",
		"frequency":       3,
		"equipmentIds":    []int64{2},
	}
	rec = s.do(t, http.MethodPut, "/api/v1/profile", token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(7), s.profiles.userID)
	assert.Equal(t, time.Date(1992, 6, 1, 0, 0, 0, 0, time.UTC), s.profiles.input.BirthDate)
	assert.Equal(t, []int64{2}, s.profiles.input.EquipmentIDs)
	assert.Equal(t, domain.GoalCut, s.profiles.input.Goal)

	body["birthDate"] = "01/06/1992"
	rec = s.do(t, http.MethodPut, "/api/v1/profile", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body["birthDate"] = "1992-06-01"
	s.profiles.err = fmt.Errorf("%w: frequency must be between 1 and 7", domain.ErrInvalidProfile)
	rec = s.do(t, http.MethodPut, "/api/v1/profile", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "frequency")

	s.profiles.profile = &domain.Profile{UserID: 7, FirstName: "Anna"}
	rec = s.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGeneratePlanHandler_ErrorMapping(t *testing.T) {
	token := signedToken(t, 7, testSecret, time.Hour)

	testCases := []struct {
		name string
		err  error
		code int
	}{
		{"profile missing", service.ErrProfileNotFound, http.StatusNotFound},
		{"generation failed", fmt.Errorf("%w: %w", service.ErrGenerationFailed, service.ErrMalformedPlan), http.StatusBadGateway},
		{"persistence failed", fmt.Errorf("%w: %w", service.ErrPersistenceFailed, service.ErrPersistence), http.StatusInternalServerError},
		{"unexpected", context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer()
			s.plans.err = tc.err
			rec := s.do(t, http.MethodPost, "/api/v1/workouts/generate", token, nil)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestGeneratePlanHandler_Success(t *testing.T) {
	s := newTestServer()
	s.plans.plan = &domain.GeneratedPlan{Weeks: []domain.PlanWeek{{WeekNumber: 1, Days: []domain.PlanDay{{DayNumber: 1}}}}}

	rec := s.do(t, http.MethodPost, "/api/v1/workouts/generate", signedToken(t, 7, testSecret, time.Hour), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"week_number":1`)
}

func TestWorkoutHandlers(t *testing.T) {
	s := newTestServer()
	token := signedToken(t, 7, testSecret, time.Hour)

	rec := s.do(t, http.MethodGet, "/api/v1/workouts", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []domain.WorkoutRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(10), list[0].ID)

	rec = s.do(t, http.MethodGet, "/api/v1/workouts/10", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/workouts/11", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/workouts/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewTestManager()
	router := gin.New()
	router.Use(RequestMetrics(m))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.CounterRequests.WithLabelValues(http.MethodGet, "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRequests.WithLabelValues(http.MethodGet, "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.GaugeRequests))
}
