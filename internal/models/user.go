package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "cliente"
)

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"uniqueIndex;not null" json:"name"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	Role           string     `gorm:"not null;default:cliente" json:"role"`
	Country        string     `json:"country"`
	Subscribed     bool       `gorm:"default:false" json:"subscribed"`
	FailedAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil    *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}
