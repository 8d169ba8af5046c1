package api

import (
	"errors"
	"net/http"
	"strconv"

	"fitcoach/backend/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// WorkoutHandler generates plans and serves the stored workouts.
type WorkoutHandler struct {
	planService    service.PlanService
	workoutService service.WorkoutService
}

func NewWorkoutHandler(planService service.PlanService, workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		planService:    planService,
		workoutService: workoutService,
	}
}

// GeneratePlan POST /api/v1/workouts/generate
func (h *WorkoutHandler) GeneratePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, "Profile not found, complete onboarding first")
		case errors.Is(err, service.ErrGenerationFailed):
			abortWithError(c, http.StatusBadGateway, "Failed to generate a workout plan, please try again")
		case errors.Is(err, service.ErrPersistenceFailed):
			abortWithError(c, http.StatusInternalServerError, "Failed to save the generated workout plan")
		default:
			log.Errorf("generate plan for user %d: %s", userID, err)
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

// ListWorkouts GET /api/v1/workouts
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		log.Errorf("list workouts for user %d: %s", userID, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout GET /api/v1/workouts/:id
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	workoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || workoutID <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Errorf("get workout %d for user %d: %s", workoutID, userID, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}
