package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studiopromise/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studios/:studioID/capacity", h.CheckCapacity)
}

// CheckCapacity reports occupancy for ?date=YYYY-MM-DD.
func (h *Handler) CheckCapacity(c *gin.Context) {
	studioID, err := strconv.ParseInt(c.Param("studioID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid studio id")
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	report, err := h.service.Check(c.Request.Context(), studioID, date)
	if err != nil {
		if errors.Is(err, ErrStudioNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Studio not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check capacity")
		return
	}

	response.Success(c, http.StatusOK, report)
}
