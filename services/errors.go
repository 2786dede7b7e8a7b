package services

import (
	"fmt"
)

// Business errors carry a stable machine-readable code so controllers can map
// them to the response envelope without string matching. They are all client
// errors; anything else bubbling out of a service is a server fault.

// MissingCellIDError is returned when a CELL payment omits the cell id
type MissingCellIDError struct{}

func (e *MissingCellIDError) Error() string {
	return "cellId is required for CELL payment"
}

// Code returns the machine-readable error code
func (e *MissingCellIDError) Code() string {
	return "MISSING_CELL_ID"
}

// CellNotFoundError is returned when the referenced cell does not exist
type CellNotFoundError struct {
	CellID uint
}

func (e *CellNotFoundError) Error() string {
	return fmt.Sprintf("cell %d not found", e.CellID)
}

// Code returns the machine-readable error code
func (e *CellNotFoundError) Code() string {
	return "CELL_NOT_FOUND"
}

// InsufficientBalanceError is returned when a cell cannot cover an order.
// Balance and Required are included so the kiosk can show both numbers.
type InsufficientBalanceError struct {
	Balance  int
	Required int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Required)
}

// Code returns the machine-readable error code
func (e *InsufficientBalanceError) Code() string {
	return "INSUFFICIENT_BALANCE"
}

// OrderNotFoundError is returned when no order matches the given order id
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

// Code returns the machine-readable error code
func (e *OrderNotFoundError) Code() string {
	return "ORDER_NOT_FOUND"
}

// InvalidStatusTransitionError is returned when an order status change is not
// allowed by the transition table
type InvalidStatusTransitionError struct {
	From string
	To   string
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

// Code returns the machine-readable error code
func (e *InvalidStatusTransitionError) Code() string {
	return "INVALID_STATUS_TRANSITION"
}
