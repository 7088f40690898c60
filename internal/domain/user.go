package domain

import "time"

type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	StudioID     int64     `json:"studio_id" gorm:"index"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
