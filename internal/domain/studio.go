package domain

import "time"

type Studio struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;size:64"`
	Name            string    `json:"name"`
	DailyEventLimit int       `json:"daily_event_limit"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Contact is the prospect a deal belongs to.
type Contact struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id" gorm:"index"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
