package pipeline

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiopromise/internal/domain"
	"studiopromise/internal/modules/booking"
	"studiopromise/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/deals", h.CreateDeal)
	rg.GET("/deals/:dealID", h.GetDeal)
	rg.POST("/deals/:dealID/transition", h.Transition)
	rg.POST("/deals/:dealID/rollback", h.Rollback)
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	deal, err := h.service.CreateDeal(c.Request.Context(), req.StudioID, req.ContactID, req.EventDate)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create deal")
		return
	}

	response.Success(c, http.StatusCreated, deal)
}

func (h *Handler) GetDeal(c *gin.Context) {
	dealID, ok := dealIDParam(c)
	if !ok {
		return
	}

	deal, err := h.service.GetDeal(c.Request.Context(), dealID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, deal)
}

func (h *Handler) Transition(c *gin.Context) {
	dealID, ok := dealIDParam(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	deal, err := h.service.Transition(c.Request.Context(), dealID, domain.StageSlug(req.Target), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, deal)
}

func (h *Handler) Rollback(c *gin.Context) {
	dealID, ok := dealIDParam(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	deal, err := h.service.AdminRollback(c.Request.Context(), dealID, domain.StageSlug(req.Target), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, deal)
}

// writeError maps service errors to the envelope; a failed approval reports
// its specific reason, never a generic error.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDealNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
	case errors.Is(err, ErrAdminOnly):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Administrative role required")
	case errors.Is(err, ErrEventDateRequired):
		response.Error(c, http.StatusBadRequest, "EVENT_DATE_REQUIRED", "Approval requires an event date")
	case errors.Is(err, ErrActiveQuotationRequired):
		response.Error(c, http.StatusConflict, "ACTIVE_QUOTATION_REQUIRED", "Exactly one active quotation is required")
	case errors.Is(err, booking.ErrCapacityExceeded):
		response.Error(c, http.StatusConflict, "CAPACITY_EXCEEDED", "The event date is already at capacity")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrConcurrentModification):
		response.Error(c, http.StatusConflict, "CONCURRENT_MODIFICATION", "Deal changed concurrently, re-read and retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update deal")
	}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetInt64("user_id"),
		Role:   domain.Role(c.GetString("role")),
	}
}

func dealIDParam(c *gin.Context) (int64, bool) {
	dealID, err := strconv.ParseInt(c.Param("dealID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid deal id")
		return 0, false
	}
	return dealID, true
}
