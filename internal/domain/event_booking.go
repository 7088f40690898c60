package domain

import "time"

// EventBooking reserves one event-day slot for an approved deal. One row per
// deal; the per-day capacity check counts rows for (studio, date).
type EventBooking struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id" gorm:"index:idx_studio_event_date"`
	DealID    int64     `json:"deal_id" gorm:"uniqueIndex:idx_event_booking_deal"`
	EventDate time.Time `json:"event_date" gorm:"index:idx_studio_event_date"`
	CreatedAt time.Time `json:"created_at"`
}
