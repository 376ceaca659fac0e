package repository

import (
	"context"

	"salonpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows stock movement listings.
type MovementFilter struct {
	ItemID  *uuid.UUID
	OrderID *uuid.UUID
	Type    string
	Page    int
	Limit   int
}

// MovementRepository appends and lists stock movements. There is no Update
// or Delete — the ledger is immutable.
type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, restaurantID uuid.UUID, filter MovementFilter) ([]model.StockMovement, int64, error)
	CountForItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	// ForOrderItem returns the deductions recorded for one order line
	// (used to reverse them when restock-on-removal is enabled).
	ForOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]model.StockMovement, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) List(ctx context.Context, restaurantID uuid.UUID, filter MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("restaurant_id = ?", restaurantID).
		Preload("Item")
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movements).Error
	return movements, total, err
}

func (r *movementRepo) ForOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) CountForItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("item_id = ?", itemID).Count(&n).Error
	return n, err
}
