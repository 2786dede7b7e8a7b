package models

import (
	"time"
)

// Cell represents a prepaid group account, identified at the kiosk by the
// last 4 digits of the leader's phone number
type Cell struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Leader     string    `gorm:"not null" json:"leader"`
	PhoneLast4 string    `gorm:"size:4;uniqueIndex;not null" json:"phone_last4"`
	Balance    int       `gorm:"not null;default:0;check:balance >= 0" json:"balance"` // point balance in KRW
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Cell model
func (Cell) TableName() string {
	return "cells"
}
