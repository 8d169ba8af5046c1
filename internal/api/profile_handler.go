package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ProfileHandler serves onboarding profiles of the authenticated user.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest is the onboarding payload. Range checks happen in the domain.
type ProfileRequest struct {
	FirstName       string  `json:"firstName" binding:"required"`
	LastName        string  `json:"lastName" binding:"required"`
	BirthDate       string  `json:"birthDate" binding:"required"` // YYYY-MM-DD
	Gender          string  `json:"gender" binding:"required"`
	HeightCM        float64 `json:"heightCm" binding:"required"`
	WeightKG        float64 `json:"weightKg" binding:"required"`
	ExperienceLevel string  `json:"experienceLevel" binding:"required"`
	Goal            string  `json:"goal" binding:"required"`
	Frequency       int     `json:"frequency" binding:"required"`
	EquipmentIDs    []int64 `json:"equipmentIds"`
	InjuryIDs       []int64 `json:"injuryIds"`
}

// UpsertProfile PUT /api/v1/profile
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	birthDate, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "birthDate must be formatted as YYYY-MM-DD")
		return
	}

	profile, err := h.profileService.UpsertProfile(c.Request.Context(), userID, service.ProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BirthDate:       birthDate,
		Gender:          domain.Gender(req.Gender),
		HeightCM:        req.HeightCM,
		WeightKG:        req.WeightKG,
		ExperienceLevel: domain.ExperienceLevel(req.ExperienceLevel),
		Goal:            domain.Goal(req.Goal),
		Frequency:       req.Frequency,
		EquipmentIDs:    req.EquipmentIDs,
		InjuryIDs:       req.InjuryIDs,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProfile) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("upsert profile for user %d: %s", userID, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "Profile not found, complete onboarding first")
			return
		}
		log.Errorf("get profile for user %d: %s", userID, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
