package repository

import (
	"context"
	"time"

	"salonpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Name   string
	Active string // "false" = archived, "all" = everything, default = active
	Page   int
	Limit  int
}

// ItemRepository is the data access contract for stock items.
// Services depend on this interface, not the GORM implementation, enabling
// unit testing via in-memory stubs.
//
// SetStockTx is intentionally the ONLY stock write: it is called exclusively
// by the ledger writer so that no stock change can bypass the movement log.
type ItemRepository interface {
	Create(ctx context.Context, i *model.Item) error
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, restaurantID uuid.UUID, filter ItemFilter) ([]model.Item, int64, error)
	Update(ctx context.Context, i *model.Item) error
	Archive(ctx context.Context, restaurantID, id uuid.UUID) error
	Restore(ctx context.Context, restaurantID, id uuid.UUID) error

	// LockByIDTx re-reads the item inside tx with a row lock, so concurrent
	// deductions serialize instead of under-accounting.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	// SetStockTx writes the new absolute stock (and optionally expiry) inside tx.
	SetStockTx(tx *gorm.DB, id uuid.UUID, newStock decimal.Decimal, newExpiry *time.Time) error

	// NeedingReplenishment returns active items below min stock or expiring
	// within warn (shopping list and alert scanner). uuid.Nil restaurantID
	// scans every tenant (used by the background watcher).
	NeedingReplenishment(ctx context.Context, restaurantID uuid.UUID, warn time.Duration) ([]model.Item, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) Create(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *itemRepo) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&i, "id = ?", id).Error
	return &i, err
}

func (r *itemRepo) List(ctx context.Context, restaurantID uuid.UUID, filter ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Item{}).Where("restaurant_id = ?", restaurantID)

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Update(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *itemRepo) Archive(ctx context.Context, restaurantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("active", false).Error
}

func (r *itemRepo) Restore(ctx context.Context, restaurantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("active", true).Error
}

func (r *itemRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *itemRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, newStock decimal.Decimal, newExpiry *time.Time) error {
	updates := map[string]interface{}{"current_stock": newStock}
	if newExpiry != nil {
		updates["expiry_date"] = newExpiry
	}
	return tx.Model(&model.Item{}).Where("id = ?", id).Updates(updates).Error
}

func (r *itemRepo) NeedingReplenishment(ctx context.Context, restaurantID uuid.UUID, warn time.Duration) ([]model.Item, error) {
	var items []model.Item
	deadline := time.Now().Add(warn)
	q := r.db.WithContext(ctx).Where("active = true")
	if restaurantID != uuid.Nil {
		q = q.Where("restaurant_id = ?", restaurantID)
	}
	err := q.
		Where("current_stock < min_stock OR (expiry_date IS NOT NULL AND expiry_date <= ?)", deadline).
		Order("name ASC").
		Find(&items).Error
	return items, err
}
