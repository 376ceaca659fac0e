package repository

import (
	"context"
	"time"

	"salonpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status string // open | closed | cancelled | all
	Date   string // YYYY-MM-DD on opened_at; empty = no date filter
	Page   int
	Limit  int
}

// PaymentRevenue is one row of the revenue-by-payment-method report.
type PaymentRevenue struct {
	PaymentMethod string          `json:"payment_method"`
	Orders        int64           `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// OrderRepository is the data access contract for orders and their items.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, restaurantID uuid.UUID, filter OrderFilter) ([]model.Order, int64, error)

	AddItemTx(tx *gorm.DB, item *model.OrderItem) error
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.OrderItem, error)
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	PurgeItemsTx(tx *gorm.DB, orderID uuid.UUID) error
	UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error

	// AccrueTotalTx applies an atomic SQL delta to order.total so concurrent
	// item additions never lose updates. Negative deltas floor at zero.
	AccrueTotalTx(tx *gorm.DB, orderID uuid.UUID, delta decimal.Decimal) error
	// CloseTx finalizes status/total/payment/closed_at in one update.
	CloseTx(tx *gorm.DB, orderID uuid.UUID, status string, total decimal.Decimal, paymentMethod *string, closedAt time.Time) error

	// KitchenQueue lists pending order items of open orders, oldest first.
	KitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]model.OrderItem, error)
	// RevenueByPayment aggregates closed (never cancelled) orders for a date.
	RevenueByPayment(ctx context.Context, restaurantID uuid.UUID, date string) ([]PaymentRevenue, error)
	// DailyCovers sums guest counts of orders closed as sales on a date.
	DailyCovers(ctx context.Context, restaurantID uuid.UUID, date string) (int64, error)

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Preload("Items").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, restaurantID uuid.UUID, filter OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("restaurant_id = ?", restaurantID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(opened_at) = ?", filter.Date)
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
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var orders []model.Order
	err := q.Preload("Items").
		Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) AddItemTx(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Create(item).Error
}

func (r *orderRepo) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*model.OrderItem, error) {
	var item model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&item, "id = ?", itemID).Error
	return &item, err
}

func (r *orderRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.OrderItem{}, "id = ?", itemID).Error
}

func (r *orderRepo) PurgeItemsTx(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Delete(&model.OrderItem{}, "order_id = ?", orderID).Error
}

func (r *orderRepo) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

func (r *orderRepo) AccrueTotalTx(tx *gorm.DB, orderID uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Order{}).Where("id = ?", orderID).
		Update("total", gorm.Expr("GREATEST(total + ?, 0)", delta)).Error
}

func (r *orderRepo) CloseTx(tx *gorm.DB, orderID uuid.UUID, status string, total decimal.Decimal, paymentMethod *string, closedAt time.Time) error {
	return tx.Model(&model.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"status":         status,
		"total":          total,
		"payment_method": paymentMethod,
		"closed_at":      closedAt,
	}).Error
}

func (r *orderRepo) KitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND orders.status = ? AND order_items.status = ?",
			restaurantID, model.OrderOpen, model.ItemPending).
		Order("order_items.created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *orderRepo) RevenueByPayment(ctx context.Context, restaurantID uuid.UUID, date string) ([]PaymentRevenue, error) {
	var rows []PaymentRevenue
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("payment_method, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("restaurant_id = ? AND status = ? AND DATE(closed_at) = ?", restaurantID, model.OrderClosed, date).
		Group("payment_method").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepo) DailyCovers(ctx context.Context, restaurantID uuid.UUID, date string) (int64, error) {
	var covers int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(guest_count), 0)").
		Where("restaurant_id = ? AND status = ? AND DATE(closed_at) = ?", restaurantID, model.OrderClosed, date).
		Scan(&covers).Error
	return covers, err
}
