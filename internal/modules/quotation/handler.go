package quotation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiopromise/internal/modules/pricing"
	"studiopromise/internal/pkg/money"
	"studiopromise/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/deals/:dealID/quotations", h.Create)
	rg.GET("/deals/:dealID/quotations/:quotationID", h.Get)
	rg.GET("/deals/:dealID/quotations/:quotationID/breakdown", h.Breakdown)
	rg.POST("/deals/:dealID/quotations/:quotationID/activate", h.Activate)
	rg.PUT("/deals/:dealID/quotations/:quotationID/bonus", h.SetBonus)
	rg.POST("/deals/:dealID/quotations/:quotationID/items", h.AddItem)
	rg.PUT("/deals/:dealID/quotations/:quotationID/items/:itemID", h.UpdateItem)
	rg.DELETE("/deals/:dealID/quotations/:quotationID/items/:itemID", h.RemoveItem)
}

func (h *Handler) Create(c *gin.Context) {
	dealID, ok := idParam(c, "dealID")
	if !ok {
		return
	}

	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	q, err := h.service.CreateQuotation(c.Request.Context(), dealID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, q)
}

func (h *Handler) Get(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}

	q, err := h.service.GetQuotation(c.Request.Context(), dealID, quotationID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, q)
}

func (h *Handler) Breakdown(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}

	breakdown, err := h.service.Breakdown(c.Request.Context(), dealID, quotationID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"breakdown":               breakdown,
		"price_to_charge_display": money.Format(breakdown.PriceToCharge),
	})
}

func (h *Handler) Activate(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}

	if err := h.service.Activate(c.Request.Context(), dealID, quotationID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quotation_id": quotationID, "status": "active"})
}

func (h *Handler) SetBonus(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req SetBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	q, err := h.service.SetBonus(c.Request.Context(), dealID, quotationID, req.BonusAmount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, q)
}

func (h *Handler) AddItem(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), dealID, quotationID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemID")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), dealID, quotationID, itemID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	dealID, quotationID, ok := pathIDs(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "itemID")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), dealID, quotationID, itemID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDealNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
	case errors.Is(err, ErrQuotationNotFound), errors.Is(err, ErrWrongDeal):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
	case errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote item not found")
	case errors.Is(err, ErrQuotationLocked):
		response.Error(c, http.StatusConflict, "QUOTATION_LOCKED", "Deal is in a terminal stage")
	case errors.Is(err, ErrValidation), errors.Is(err, pricing.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process quotation")
	}
}

func pathIDs(c *gin.Context) (dealID, quotationID int64, ok bool) {
	dealID, ok = idParam(c, "dealID")
	if !ok {
		return 0, 0, false
	}
	quotationID, ok = idParam(c, "quotationID")
	if !ok {
		return 0, 0, false
	}
	return dealID, quotationID, true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name)
		return 0, false
	}
	return id, true
}
