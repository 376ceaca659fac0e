package service

import (
	"fmt"
	"time"

	"salonpos/internal/model"
	"salonpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerWriter is the single choke point through which every stock change
// flows — sales, withdrawals, entries, and adjustments alike. It writes the
// item's new stock and appends the StockMovement in the same transaction,
// so there can be no stock change without a ledger entry.
//
// No other code path may mutate Item.CurrentStock.
type LedgerWriter interface {
	// ApplyTx records newStock for item inside tx and appends the movement.
	// The caller must hold the item's row lock (ItemRepository.LockByIDTx)
	// so previous_stock is read consistently. On success the in-memory item
	// is updated to the new values.
	ApplyTx(tx *gorm.DB, item *model.Item, newStock decimal.Decimal, newExpiry *time.Time,
		movementType, reason string, actor uuid.UUID, orderID, orderItemID *uuid.UUID) (*model.StockMovement, error)
}

type ledgerWriter struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
}

func NewLedgerWriter(items repository.ItemRepository, movements repository.MovementRepository) LedgerWriter {
	return &ledgerWriter{items: items, movements: movements}
}

func (w *ledgerWriter) ApplyTx(tx *gorm.DB, item *model.Item, newStock decimal.Decimal, newExpiry *time.Time,
	movementType, reason string, actor uuid.UUID, orderID, orderItemID *uuid.UUID) (*model.StockMovement, error) {

	switch movementType {
	case model.MovementEntry, model.MovementWithdrawal, model.MovementAdjustment:
	default:
		return nil, fmt.Errorf("unknown movement type %q", movementType)
	}

	prevStock := item.CurrentStock
	prevExpiry := item.ExpiryDate

	if err := w.items.SetStockTx(tx, item.ID, newStock, newExpiry); err != nil {
		return nil, fmt.Errorf("set stock for %s: %w", item.Name, err)
	}

	mov := &model.StockMovement{
		RestaurantID:   item.RestaurantID,
		ItemID:         item.ID,
		PreviousStock:  prevStock,
		NewStock:       newStock,
		PreviousExpiry: prevExpiry,
		NewExpiry:      newExpiry,
		ChangedBy:      actor,
		Type:           movementType,
		Reason:         reason,
		OrderID:        orderID,
		OrderItemID:    orderItemID,
	}
	if err := w.movements.CreateTx(tx, mov); err != nil {
		return nil, fmt.Errorf("append movement for %s: %w", item.Name, err)
	}

	item.CurrentStock = newStock
	if newExpiry != nil {
		item.ExpiryDate = newExpiry
	}
	return mov, nil
}
