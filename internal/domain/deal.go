package domain

import "time"

type StageSlug string

const (
	StagePending     StageSlug = "pending"
	StageNegotiation StageSlug = "negotiation"
	StageClosing     StageSlug = "closing"
	StageApproved    StageSlug = "approved"
	StageCanceled    StageSlug = "canceled"
	StageArchived    StageSlug = "archived"
)

// RouteState is the canonical sub-view a viewer should be on for a deal.
type RouteState string

const (
	RoutePending    RouteState = "pending"
	RouteClosing    RouteState = "closing"
	RouteAuthorized RouteState = "authorized"
)

// Deal is a prospective client's in-progress negotiation ("promise").
// CurrentStageSlug is the single source of truth for routing; it is written
// only through the pipeline service's compare-and-swap.
type Deal struct {
	ID               int64      `json:"id"`
	StudioID         int64      `json:"studio_id" validate:"required"`
	ContactID        int64      `json:"contact_id" validate:"required"`
	PublicToken      string     `json:"public_token" gorm:"uniqueIndex;size:36"`
	CurrentStageSlug StageSlug  `json:"current_stage_slug" gorm:"index"`
	EventDate        *time.Time `json:"event_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Quotations []Quotation `json:"quotations,omitempty" gorm:"foreignKey:DealID"`
}
