package realtime

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiopromise/internal/domain"
	"studiopromise/internal/modules/pipeline"
	"studiopromise/internal/pkg/jwt"
	"studiopromise/internal/pkg/response"
)

// DealDirectory looks deals up for routing.
type DealDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	GetByPublicToken(ctx context.Context, token string) (*domain.Deal, error)
}

// StudioDirectory resolves studio slugs for route building.
type StudioDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Studio, error)
}

type Handler struct {
	hub     *Hub
	deals   DealDirectory
	studios StudioDirectory
	jwt     *jwt.Service
}

func NewHandler(hub *Hub, deals DealDirectory, studios StudioDirectory, jwtService *jwt.Service) *Handler {
	return &Handler{
		hub:     hub,
		deals:   deals,
		studios: studios,
		jwt:     jwtService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/studios/:studio/promises/:dealID", h.RedirectToCanonical)
	r.GET("/studios/:studio/promises/:dealID/:routeState", h.PromiseView)
	r.GET("/public/promises/:token", h.PublicRedirect)
	r.GET("/ws/promises/:dealID", h.StaffSocket)
	r.GET("/ws/public/promises/:token", h.PublicSocket)
}

// RedirectToCanonical answers a deal's root path with a server-side redirect
// to the resolved sub-route, so the viewer never flashes the wrong view.
func (h *Handler) RedirectToCanonical(c *gin.Context) {
	studio, deal, ok := h.lookup(c)
	if !ok {
		return
	}
	state := pipeline.ResolveRouteState(deal.CurrentStageSlug)
	c.Redirect(http.StatusFound, pipeline.RoutePath(studio.Slug, deal.ID, state))
}

// PromiseView serves a sub-route; a request for a stale sub-route is
// redirected to the canonical one before anything is rendered.
func (h *Handler) PromiseView(c *gin.Context) {
	studio, deal, ok := h.lookup(c)
	if !ok {
		return
	}

	canonical := pipeline.ResolveRouteState(deal.CurrentStageSlug)
	requested := domain.RouteState(c.Param("routeState"))
	if requested != canonical {
		c.Redirect(http.StatusFound, pipeline.RoutePath(studio.Slug, deal.ID, canonical))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"deal_id":     deal.ID,
		"stage":       deal.CurrentStageSlug,
		"route_state": canonical,
	})
}

// PublicRedirect resolves a prospect's share token to the canonical route.
func (h *Handler) PublicRedirect(c *gin.Context) {
	deal, err := h.deals.GetByPublicToken(c.Request.Context(), c.Param("token"))
	if err != nil || deal == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promise not found")
		return
	}
	studio, err := h.studios.GetByID(c.Request.Context(), deal.StudioID)
	if err != nil || studio == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Studio not found")
		return
	}
	state := pipeline.ResolveRouteState(deal.CurrentStageSlug)
	c.Redirect(http.StatusFound, pipeline.RoutePath(studio.Slug, deal.ID, state))
}

// StaffSocket upgrades a staff viewer. Auth travels in ?token= because the
// browser websocket API cannot set headers.
func (h *Handler) StaffSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}
	if _, err := h.jwt.ValidateToken(token); err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	dealID, err := strconv.ParseInt(c.Param("dealID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid deal id")
		return
	}
	deal, err := h.deals.GetByID(c.Request.Context(), dealID)
	if err != nil || deal == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deal not found")
		return
	}

	h.serve(c, deal)
}

// PublicSocket upgrades a prospect viewer identified by the share token.
func (h *Handler) PublicSocket(c *gin.Context) {
	deal, err := h.deals.GetByPublicToken(c.Request.Context(), c.Param("token"))
	if err != nil || deal == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promise not found")
		return
	}

	h.serve(c, deal)
}

func (h *Handler) serve(c *gin.Context, deal *domain.Deal) {
	studio, err := h.studios.GetByID(c.Request.Context(), deal.StudioID)
	if err != nil || studio == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Studio not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade failed deal_id=%d error=%v", deal.ID, err)
		return
	}

	h.hub.ServeWS(conn, deal.ID, studio.Slug)
}

func (h *Handler) lookup(c *gin.Context) (*domain.Studio, *domain.Deal, bool) {
	studio, err := h.studios.GetBySlug(c.Request.Context(), c.Param("studio"))
	if err != nil || studio == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Studio not found")
		return nil, nil, false
	}

	dealID, err := strconv.ParseInt(c.Param("dealID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid deal id")
		return nil, nil, false
	}

	deal, err := h.deals.GetByID(c.Request.Context(), dealID)
	if err != nil || deal == nil || deal.StudioID != studio.ID {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promise not found")
		return nil, nil, false
	}

	return studio, deal, true
}
