package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/models"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
)

// CellInfoResponse is the cell summary embedded in order responses. Balance is
// only populated on order creation, where the kiosk shows the remainder.
type CellInfoResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Balance *int   `json:"balance,omitempty"`
}

// OrderItemResponse is one order line with its option snapshots grouped the
// way the kiosk sent them
type OrderItemResponse struct {
	MenuName        string                      `json:"menuName"`
	MenuPrice       int                         `json:"menuPrice"`
	Quantity        int                         `json:"quantity"`
	SelectedOptions []services.OrderOptionGroup `json:"selectedOptions"`
	TotalPrice      int                         `json:"totalPrice"`
}

// OrderResponse is the public shape of an order
type OrderResponse struct {
	OrderID     string              `json:"orderId"`
	DailyNum    int                 `json:"dailyNum"`
	PayType     string              `json:"payType"`
	CellInfo    *CellInfoResponse   `json:"cellInfo"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount int                 `json:"totalAmount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt *time.Time          `json:"completedAt"`
	CancelledAt *time.Time          `json:"cancelledAt,omitempty"`
}

// buildOrderResponse converts an order with loaded snapshots into its public
// shape. includeBalance controls whether the cell's current balance is exposed.
func buildOrderResponse(order *models.Order, includeBalance bool) OrderResponse {
	resp := OrderResponse{
		OrderID:     order.OrderID,
		DailyNum:    order.DailyNum,
		PayType:     order.PayType,
		Items:       make([]OrderItemResponse, 0, len(order.Items)),
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		CompletedAt: order.CompletedAt,
		CancelledAt: order.CancelledAt,
	}

	if order.Cell != nil {
		info := &CellInfoResponse{
			ID:   order.Cell.ID,
			Name: order.Cell.Name,
		}
		if includeBalance {
			balance := order.Cell.Balance
			info.Balance = &balance
		}
		resp.CellInfo = info
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			MenuName:        item.MenuName,
			MenuPrice:       item.MenuPrice,
			Quantity:        item.Quantity,
			SelectedOptions: groupItemOptions(item.Options),
			TotalPrice:      item.TotalPrice,
		})
	}

	return resp
}

// groupItemOptions rebuilds the selected option groups from the flattened
// snapshot rows, preserving insertion order
func groupItemOptions(options []models.OrderItemOption) []services.OrderOptionGroup {
	groups := make([]services.OrderOptionGroup, 0)
	index := make(map[string]int)

	for _, opt := range options {
		i, seen := index[opt.OptionGroupName]
		if !seen {
			i = len(groups)
			index[opt.OptionGroupName] = i
			groups = append(groups, services.OrderOptionGroup{GroupName: opt.OptionGroupName})
		}
		groups[i].Items = append(groups[i].Items, services.OrderOptionItem{
			Name:  opt.OptionItemName,
			Price: opt.OptionItemPrice,
		})
	}

	return groups
}

// respondServiceError maps business errors from the service layer to their
// HTTP status and response envelope. Anything unrecognized is a server fault.
func respondServiceError(c *gin.Context, err error) {
	var missingCell *services.MissingCellIDError
	var cellNotFound *services.CellNotFoundError
	var insufficient *services.InsufficientBalanceError
	var orderNotFound *services.OrderNotFoundError
	var badTransition *services.InvalidStatusTransitionError

	switch {
	case errors.As(err, &missingCell):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    missingCell.Code(),
				"message": "cellId is required for CELL payment",
			},
		})
	case errors.As(err, &cellNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    cellNotFound.Code(),
				"message": "Cell not found",
			},
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":     insufficient.Code(),
				"message":  insufficient.Error(),
				"balance":  insufficient.Balance,
				"required": insufficient.Required,
			},
		})
	case errors.As(err, &orderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    orderNotFound.Code(),
				"message": "Order not found",
			},
		})
	case errors.As(err, &badTransition):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    badTransition.Code(),
				"message": badTransition.Error(),
			},
		})
	default:
		log.Printf("Unexpected service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "An unexpected error occurred",
			},
		})
	}
}
