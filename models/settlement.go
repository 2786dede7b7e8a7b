package models

import (
	"time"
)

// DailySettlement is the per-day revenue rollup confirmed by an administrator
type DailySettlement struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Date            string     `gorm:"size:10;uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	TotalOrders     int        `gorm:"not null;default:0" json:"total_orders"`
	TotalRevenue    int        `gorm:"not null;default:0" json:"total_revenue"`
	PersonalOrders  int        `gorm:"not null;default:0" json:"personal_orders"`
	PersonalRevenue int        `gorm:"not null;default:0" json:"personal_revenue"`
	CellOrders      int        `gorm:"not null;default:0" json:"cell_orders"`
	CellRevenue     int        `gorm:"not null;default:0" json:"cell_revenue"`
	IsConfirmed     bool       `gorm:"not null;default:false" json:"is_confirmed"`
	ConfirmedBy     *uint      `json:"confirmed_by"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	Notes           *string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName specifies the table name for the DailySettlement model
func (DailySettlement) TableName() string {
	return "daily_settlements"
}

// SystemSetting is a durable key/value row. The key "next_order_number" holds
// the cyclic daily-number counter shared by all order creations; it must only
// ever be advanced through a compare-and-swap update, never a blind write.
type SystemSetting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description *string   `gorm:"type:text" json:"description"`
	UpdatedBy   *uint     `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SystemSetting model
func (SystemSetting) TableName() string {
	return "system_settings"
}
