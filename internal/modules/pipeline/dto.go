package pipeline

import "time"

type CreateDealRequest struct {
	StudioID  int64      `json:"studio_id" binding:"required"`
	ContactID int64      `json:"contact_id" binding:"required"`
	EventDate *time.Time `json:"event_date"`
}

type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
}
