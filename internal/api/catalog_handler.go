package api

import (
	"net/http"

	"fitcoach/backend/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CatalogHandler serves the read-only exercise catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListEquipment GET /api/v1/catalog/equipment
func (h *CatalogHandler) ListEquipment(c *gin.Context) {
	equipment, err := h.catalogService.ListEquipment(c.Request.Context())
	if err != nil {
		log.Errorf("list equipment: %s", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve equipment")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// ListInjuries GET /api/v1/catalog/injuries
func (h *CatalogHandler) ListInjuries(c *gin.Context) {
	injuries, err := h.catalogService.ListInjuries(c.Request.Context())
	if err != nil {
		log.Errorf("list injuries: %s", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve injuries")
		return
	}
	c.JSON(http.StatusOK, injuries)
}

// ListExercises GET /api/v1/catalog/exercises
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.ListExercises(c.Request.Context())
	if err != nil {
		log.Errorf("list exercises: %s", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}
