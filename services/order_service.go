package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// OrderOptionItem is one selected option choice in an order request
type OrderOptionItem struct {
	Name  string `json:"name" binding:"required"`
	Price int    `json:"price"`
}

// OrderOptionGroup is one option group with its selected choices
type OrderOptionGroup struct {
	GroupName string            `json:"groupName" binding:"required"`
	Items     []OrderOptionItem `json:"items"`
}

// OrderItemRequest is one line of an order request. Name and price are the
// kiosk's snapshot of the menu at selection time.
type OrderItemRequest struct {
	MenuID          uint               `json:"menuId"`
	MenuName        string             `json:"menuName" binding:"required"`
	MenuPrice       int                `json:"menuPrice" binding:"min=0"`
	Quantity        int                `json:"quantity" binding:"required,gt=0"`
	SelectedOptions []OrderOptionGroup `json:"selectedOptions"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	PayType     string             `json:"payType" binding:"required,oneof=PERSONAL CELL"`
	CellID      *uint              `json:"cellId"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount int                `json:"totalAmount" binding:"required,gt=0"`
}

const (
	dailyNumberKey = "next_order_number"
	dailyNumberMax = 12

	// CAS retries before giving up; contention on a single counter row at
	// kiosk scale never comes close to this
	dailyNumberMaxAttempts = 25
)

// CreateOrder validates payment, assigns the order id and daily number, persists
// the order with its line snapshots, and for CELL payment debits the cell and
// writes the matching USE ledger row. Everything runs in one database
// transaction: either all rows exist and the balance reflects the debit, or
// nothing happened.
func CreateOrder(db *gorm.DB, req *CreateOrderRequest) (*models.Order, error) {
	var created *models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cell *models.Cell
		if req.PayType == models.PayTypeCell {
			if req.CellID == nil {
				return &MissingCellIDError{}
			}
			cell = &models.Cell{}
			if err := tx.First(cell, *req.CellID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &CellNotFoundError{CellID: *req.CellID}
				}
				return err
			}
		}

		// Recompute every line total from the snapshot prices. The recomputed
		// order total is authoritative for the debit and the stored amount; a
		// kiosk sending a different total is logged, not rejected.
		lineTotals := make([]int, len(req.Items))
		total := 0
		for i, item := range req.Items {
			optionTotal := 0
			for _, group := range item.SelectedOptions {
				for _, opt := range group.Items {
					optionTotal += opt.Price
				}
			}
			lineTotals[i] = (item.MenuPrice + optionTotal) * item.Quantity
			total += lineTotals[i]
		}
		if total != req.TotalAmount {
			log.Printf("Order total mismatch: client sent %d, recomputed %d (using recomputed)", req.TotalAmount, total)
		}

		// Advisory check so the kiosk gets the current balance in the error;
		// the conditional debit below is what actually prevents overdraft.
		if cell != nil && cell.Balance < total {
			return &InsufficientBalanceError{Balance: cell.Balance, Required: total}
		}

		dailyNum, err := nextDailyNumber(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderID:     generateOrderID(),
			DailyNum:    dailyNum,
			PayType:     req.PayType,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
		}
		if cell != nil {
			order.CellID = &cell.ID
		}
		for i, item := range req.Items {
			orderItem := models.OrderItem{
				MenuName:   item.MenuName,
				MenuPrice:  item.MenuPrice,
				Quantity:   item.Quantity,
				TotalPrice: lineTotals[i],
			}
			if item.MenuID != 0 {
				menuID := item.MenuID
				orderItem.MenuID = &menuID
			}
			for _, group := range item.SelectedOptions {
				for _, opt := range group.Items {
					orderItem.Options = append(orderItem.Options, models.OrderItemOption{
						OptionGroupName: group.GroupName,
						OptionItemName:  opt.Name,
						OptionItemPrice: opt.Price,
					})
				}
			}
			order.Items = append(order.Items, orderItem)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if cell != nil {
			if err := debitCell(tx, cell, total, order.ID); err != nil {
				return err
			}
			order.Cell = cell
		}

		created = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// debitCell atomically decrements the cell balance and records the USE ledger
// row. The decrement is guarded by the balance itself, so two orders racing on
// the same cell can never both pass a stale sufficiency check: the second one
// simply matches zero rows and fails here.
func debitCell(tx *gorm.DB, cell *models.Cell, amount int, orderID uint) error {
	result := tx.Model(&models.Cell{}).
		Where("id = ? AND balance >= ?", cell.ID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// A concurrent order drained the balance between check and debit
		var fresh models.Cell
		if err := tx.First(&fresh, cell.ID).Error; err != nil {
			return err
		}
		return &InsufficientBalanceError{Balance: fresh.Balance, Required: amount}
	}

	// Re-read within the transaction for the post-debit balance snapshot
	if err := tx.First(cell, cell.ID).Error; err != nil {
		return err
	}

	transaction := models.PointTransaction{
		CellID:       cell.ID,
		Type:         models.TransactionTypeUse,
		Amount:       -amount,
		BalanceAfter: cell.Balance,
		OrderID:      &orderID,
	}
	return tx.Create(&transaction).Error
}

// nextDailyNumber advances the shared 1-12 counter and returns the assigned
// number. The counter lives in a durable system_settings row; the advance is a
// compare-and-swap retried on conflict, so concurrent order creations each get
// their own number and the row is never torn between readers and writers.
func nextDailyNumber(tx *gorm.DB) (int, error) {
	for attempt := 0; attempt < dailyNumberMaxAttempts; attempt++ {
		var setting models.SystemSetting
		err := tx.Where("key = ?", dailyNumberKey).First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			description := "Next kiosk display number (1-12)"
			setting = models.SystemSetting{
				Key:         dailyNumberKey,
				Value:       "1",
				Description: &description,
			}
			if err := tx.Create(&setting).Error; err != nil {
				// Another creation seeded the row first; retry the read
				continue
			}
		} else if err != nil {
			return 0, err
		}

		current, err := strconv.Atoi(setting.Value)
		if err != nil || current < 1 || current > dailyNumberMax {
			// A corrupted counter value restarts the cycle rather than
			// blocking every order
			log.Printf("Resetting invalid daily number counter value %q", setting.Value)
			current = 1
		}
		next := current%dailyNumberMax + 1

		result := tx.Model(&models.SystemSetting{}).
			Where("key = ? AND value = ?", dailyNumberKey, setting.Value).
			Update("value", strconv.Itoa(next))
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 1 {
			return current, nil
		}
		// Lost the race against another order creation; retry with the fresh value
	}
	return 0, fmt.Errorf("could not advance daily number after %d attempts", dailyNumberMaxAttempts)
}

const orderIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateOrderID builds the globally unique order id: ORD-{millis}-{random}
func generateOrderID() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.IntN(len(orderIDAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// GetOrderByID returns one order with its item and option snapshots and cell
func GetOrderByID(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items.Options").Preload("Cell").
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &OrderNotFoundError{OrderID: orderID}
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first with the total count before
// pagination. Filters are conjunctive; empty strings mean no filter.
func ListOrders(db *gorm.DB, status, payType string, limit, offset int) ([]models.Order, int64, error) {
	query := db.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if payType != "" {
		query = query.Where("pay_type = ?", payType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Preload("Items.Options").Preload("Cell").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// allowedTransitions is the order status state machine. Terminal statuses have
// no exits; MAKING cannot be skipped on the way to COMPLETED.
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusMaking, models.OrderStatusCancelled},
	models.OrderStatusMaking:    {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted: {},
	models.OrderStatusCancelled: {},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// applyStatusChange flips the order status with the loaded status as a
// predicate, so two concurrent transitions from the same state can never both
// land: the loser matches zero rows and fails like any other bad transition.
// On success the in-memory order is updated to match the row.
func applyStatusChange(tx *gorm.DB, order *models.Order, newStatus string) error {
	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case models.OrderStatusCompleted:
		updates["completed_at"] = &now
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = &now
	}

	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// A concurrent update moved the order first
		var fresh models.Order
		if err := tx.First(&fresh, order.ID).Error; err != nil {
			return err
		}
		return &InvalidStatusTransitionError{From: fresh.Status, To: newStatus}
	}

	order.Status = newStatus
	switch newStatus {
	case models.OrderStatusCompleted:
		order.CompletedAt = &now
	case models.OrderStatusCancelled:
		order.CancelledAt = &now
	}
	return nil
}

// UpdateOrderStatus moves an order through the status state machine. COMPLETED
// stamps the completion time, CANCELLED stamps the cancellation time, and
// cancelling a CELL-paid order refunds the balance with a matching REFUND
// ledger row in the same transaction.
func UpdateOrderStatus(db *gorm.DB, orderID, newStatus string) (*models.Order, error) {
	var updated *models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("order_id = ?", orderID).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &OrderNotFoundError{OrderID: orderID}
			}
			return err
		}

		if !transitionAllowed(order.Status, newStatus) {
			return &InvalidStatusTransitionError{From: order.Status, To: newStatus}
		}

		if err := applyStatusChange(tx, &order, newStatus); err != nil {
			return err
		}

		if newStatus == models.OrderStatusCancelled && order.PayType == models.PayTypeCell && order.CellID != nil {
			if err := refundCell(tx, *order.CellID, order.TotalAmount, order.ID); err != nil {
				return err
			}
		}

		updated = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with snapshots for the response
	return GetOrderByID(db, updated.OrderID)
}

// refundCell credits a cancelled order's amount back to the cell and records
// the REFUND ledger row
func refundCell(tx *gorm.DB, cellID uint, amount int, orderID uint) error {
	result := tx.Model(&models.Cell{}).
		Where("id = ?", cellID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &CellNotFoundError{CellID: cellID}
	}

	var cell models.Cell
	if err := tx.First(&cell, cellID).Error; err != nil {
		return err
	}

	memo := "Refund for cancelled order"
	transaction := models.PointTransaction{
		CellID:       cellID,
		Type:         models.TransactionTypeRefund,
		Amount:       amount,
		BalanceAfter: cell.Balance,
		OrderID:      &orderID,
		Memo:         &memo,
	}
	return tx.Create(&transaction).Error
}
