package models

import (
	"time"
)

// Admin roles
const (
	RoleSuper  = "SUPER"
	RoleNormal = "NORMAL"
)

// User represents an administrator account
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Role         string     `gorm:"size:20;not null;default:'NORMAL'" json:"role"` // SUPER or NORMAL
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsSuper reports whether the user has the SUPER role
func (u *User) IsSuper() bool {
	return u.Role == RoleSuper
}
