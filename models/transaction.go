package models

import (
	"time"
)

// Point transaction types
const (
	TransactionTypeCharge = "CHARGE"
	TransactionTypeUse    = "USE"
	TransactionTypeRefund = "REFUND"
)

// PointTransaction is one immutable ledger row for a cell balance change.
// Amount is signed: positive for CHARGE/REFUND, negative for USE. BalanceAfter
// is the cell balance immediately after applying Amount, so for any cell the
// rows ordered by creation time form a consistent running balance.
type PointTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CellID       uint      `gorm:"not null;index" json:"cell_id"`
	Cell         Cell      `gorm:"foreignKey:CellID" json:"-"`
	Type         string    `gorm:"size:20;not null" json:"type"` // CHARGE, USE, REFUND
	Amount       int       `gorm:"not null" json:"amount"`
	BalanceAfter int       `gorm:"not null" json:"balance_after"`
	OrderID      *uint     `gorm:"index" json:"order_id"` // orders.id, set for USE/REFUND
	Memo         *string   `gorm:"type:text" json:"memo"`
	CreatedBy    *uint     `json:"created_by"` // admin user id for manual charges
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the PointTransaction model
func (PointTransaction) TableName() string {
	return "point_transactions"
}
