package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// ChargeResult is the outcome of a point charge
type ChargeResult struct {
	Cell         *models.Cell
	ChargeAmount int
	BonusAmount  int
	TotalAmount  int
}

// ChargeCell credits amount plus bonus to a cell and records the CHARGE ledger
// row, both in one transaction. Bonus is floor(amount * bonusRate / 100).
// Charges always succeed for an existing cell; there is no upper limit.
func ChargeCell(db *gorm.DB, cellID uint, amount, bonusRate int, memo *string, adminID *uint) (*ChargeResult, error) {
	var result *ChargeResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var cell models.Cell
		if err := tx.First(&cell, cellID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &CellNotFoundError{CellID: cellID}
			}
			return err
		}

		bonus := amount * bonusRate / 100
		credit := amount + bonus

		res := tx.Model(&models.Cell{}).
			Where("id = ?", cellID).
			Update("balance", gorm.Expr("balance + ?", credit))
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&cell, cellID).Error; err != nil {
			return err
		}

		transaction := models.PointTransaction{
			CellID:       cellID,
			Type:         models.TransactionTypeCharge,
			Amount:       credit,
			BalanceAfter: cell.Balance,
			Memo:         memo,
			CreatedBy:    adminID,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		result = &ChargeResult{
			Cell:         &cell,
			ChargeAmount: amount,
			BonusAmount:  bonus,
			TotalAmount:  credit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransactionFilter narrows a cell's ledger history query
type TransactionFilter struct {
	Start  *time.Time
	End    *time.Time // exclusive
	Type   string
	Limit  int
	Offset int
}

// ListCellTransactions returns a cell's ledger rows newest first with the
// total count before pagination
func ListCellTransactions(db *gorm.DB, cellID uint, filter TransactionFilter) ([]models.PointTransaction, int64, error) {
	var cell models.Cell
	if err := db.First(&cell, cellID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &CellNotFoundError{CellID: cellID}
		}
		return nil, 0, err
	}

	query := db.Model(&models.PointTransaction{}).Where("cell_id = ?", cellID)
	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("created_at < ?", *filter.End)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.PointTransaction
	err := query.Order("created_at DESC, id DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}
