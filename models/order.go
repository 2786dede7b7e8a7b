package models

import (
	"time"
)

// Payment types
const (
	PayTypePersonal = "PERSONAL"
	PayTypeCell     = "CELL"
)

// Order statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusMaking    = "MAKING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Order represents a kiosk order. Items and their options are snapshots taken
// at order time, so later catalog edits never change historical orders.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderID     string      `gorm:"size:100;uniqueIndex;not null" json:"order_id"` // 'ORD-1234567890-abc123'
	DailyNum    int         `gorm:"not null;index" json:"daily_num"`               // 1-12 cycling display number
	PayType     string      `gorm:"size:20;not null" json:"pay_type"`              // PERSONAL or CELL
	CellID      *uint       `gorm:"index" json:"cell_id"`                          // set only for CELL payment
	Cell        *Cell       `gorm:"foreignKey:CellID" json:"cell,omitempty"`
	TotalAmount int         `gorm:"not null" json:"total_amount"`
	Status      string      `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at"`
	CancelledAt *time.Time  `json:"cancelled_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order is in a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// OrderItem is a snapshot of one ordered menu at order time. MenuID is a soft
// reference kept for statistics joins; it may dangle after the menu is deleted.
type OrderItem struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	OrderID    uint              `gorm:"not null;index" json:"order_id"` // orders.id, not the public order id string
	MenuID     *uint             `json:"menu_id"`
	MenuName   string            `gorm:"size:100;not null" json:"menu_name"`
	MenuPrice  int               `gorm:"not null" json:"menu_price"`
	Quantity   int               `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalPrice int               `gorm:"not null" json:"total_price"` // (menu_price + options) * quantity
	Options    []OrderItemOption `gorm:"foreignKey:OrderItemID" json:"options"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderItemOption is a flattened snapshot of one selected option. There is no
// relational link back to the live option catalog on purpose.
type OrderItemOption struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderItemID     uint      `gorm:"not null;index" json:"order_item_id"`
	OptionGroupName string    `gorm:"size:100;not null" json:"option_group_name"`
	OptionItemName  string    `gorm:"size:100;not null" json:"option_item_name"`
	OptionItemPrice int       `gorm:"not null" json:"option_item_price"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderItemOption model
func (OrderItemOption) TableName() string {
	return "order_item_options"
}
