package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/llm"
	"fitcoach/backend/internal/metrics"
	"fitcoach/backend/internal/repository"
	"fitcoach/backend/internal/storage"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrGenerationFailed  = errors.New("plan generation failed")
	ErrPersistenceFailed = errors.New("plan persistence failed")
)

const archiveTimeout = 10 * time.Second

// PlanRequester sends a composed prompt to the generative model.
type PlanRequester interface {
	RequestPlan(ctx context.Context, payload string) (string, error)
}

type PlanService interface {
	// GeneratePlan builds, validates and stores a new plan for the user,
	// starting today. It fails with ErrProfileNotFound, ErrGenerationFailed
	// or ErrPersistenceFailed.
	GeneratePlan(ctx context.Context, userID int64) (*domain.GeneratedPlan, error)
}

type PlanServiceParams struct {
	ProfileRepo repository.ProfileRepository
	CatalogRepo repository.CatalogRepository
	Requester   PlanRequester
	Persister   *PlanPersister
	Archive     storage.PlanArchive // Optional
	Metrics     *metrics.Manager // Defaults to an unregistered manager
	Retry       RetryPolicy
	Now         func() time.Time // Defaults to time.Now
}

type planService struct {
	profileRepo repository.ProfileRepository
	catalogRepo repository.CatalogRepository
	requester   PlanRequester
	persister   *PlanPersister
	archive     storage.PlanArchive
	metrics     *metrics.Manager
	retry       RetryPolicy
	now         func() time.Time
}

func NewPlanService(params PlanServiceParams) PlanService {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	metricsManager := params.Metrics
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	return &planService{
		profileRepo: params.ProfileRepo,
		catalogRepo: params.CatalogRepo,
		requester:   params.Requester,
		persister:   params.Persister,
		archive:     params.Archive,
		metrics:     metricsManager,
		retry:       params.Retry,
		now:         now,
	}
}

// generationInput is the snapshot a single generation works from.
type generationInput struct {
	profile  *domain.Profile
	catalog  []domain.Exercise
	baseline domain.Equipment
}

func (s *planService) GeneratePlan(ctx context.Context, userID int64) (*domain.GeneratedPlan, error) {
	defer func(begin time.Time) {
		s.metrics.HistGenerationDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	startDate := domain.CalendarDate(s.now())
	logger := log.WithField("user_id", userID)

	input, err := s.load(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			s.countOutcome(metrics.OutcomeProfileNotFound)
			return nil, err
		}
		logger.Errorf("load generation input: %s", err)
		s.countOutcome(metrics.OutcomeGenerationFailed)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	input.profile.EnsureBaselineEquipment(input.baseline)
	payload := Compose(input.profile, input.catalog)
	if len(payload.Candidates) == 0 {
		s.countOutcome(metrics.OutcomeGenerationFailed)
		return nil, fmt.Errorf("%w: no exercise in the catalog matches the profile equipment", ErrGenerationFailed)
	}

	raw, err := retryTransient(ctx, s.retry,
		func(ctx context.Context) (string, error) {
			raw, err := s.requester.RequestPlan(ctx, payload.Text)
			s.metrics.CounterUpstreamAttempts.WithLabelValues(attemptResult(err)).Inc()
			return raw, err
		},
		func(attempt int, err error) {
			logger.WithField("attempt", attempt).Warnf("plan request failed, retrying: %s", err)
		},
	)
	if err != nil {
		logger.Errorf("request plan: %s", err)
		s.countOutcome(metrics.OutcomeGenerationFailed)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	plan, err := ParseAndValidate(raw, payload.Eligible())
	if err != nil {
		logger.Errorf("validate plan: %s", err)
		s.countOutcome(metrics.OutcomeGenerationFailed)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	// Last point where the caller can still back out; nothing is written yet.
	if err := ctx.Err(); err != nil {
		s.countOutcome(metrics.OutcomeGenerationFailed)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	records, err := s.persister.Persist(ctx, userID, startDate, plan)
	if err != nil {
		logger.Errorf("persist plan: %s", err)
		s.countOutcome(metrics.OutcomePersistenceFailed)
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	s.metrics.CounterWorkoutsPersisted.Add(float64(len(records)))
	s.countOutcome(metrics.OutcomeSuccess)
	s.archiveRaw(ctx, userID, startDate, raw)

	logger.WithFields(log.Fields{
		"weeks":   len(plan.Weeks),
		"records": len(records),
	}).Info("plan generated")
	return plan, nil
}

// load reads the profile, the catalog and the baseline equipment concurrently.
func (s *planService) load(ctx context.Context, userID int64) (*generationInput, error) {
	input := &generationInput{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.profileRepo.GetByUserID(gctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("get profile: %w", err)
		}
		input.profile = profile
		return nil
	})
	g.Go(func() error {
		catalog, err := s.catalogRepo.ListExercises(gctx)
		if err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		input.catalog = catalog
		return nil
	})
	g.Go(func() error {
		baseline, err := s.catalogRepo.GetEquipmentByName(gctx, domain.BaselineEquipmentName)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			input.baseline = domain.Equipment{Name: domain.BaselineEquipmentName}
		case err != nil:
			return fmt.Errorf("get baseline equipment: %w", err)
		default:
			input.baseline = *baseline
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return input, nil
}

func (s *planService) archiveRaw(ctx context.Context, userID int64, startDate time.Time, raw string) {
	if s.archive == nil {
		return
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if _, err := s.archive.ArchiveRawPlan(actx, userID, startDate, []byte(raw)); err != nil {
		log.WithField("user_id", userID).Warnf("archive raw plan: %s", err)
	}
}

func (s *planService) countOutcome(outcome string) {
	s.metrics.CounterPlanGenerations.WithLabelValues(outcome).Inc()
}

func attemptResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, llm.ErrTimeout):
		return "timeout"
	case errors.Is(err, llm.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, llm.ErrUpstream):
		return "upstream_error"
	default:
		return "canceled"
	}
}
