package service

import (
	"context"
	"errors"
	"time"

	"salonpos/internal/model"
	"salonpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ItemRepository stub ────────────────────────────────────────────

type stubItemRepo struct {
	items map[uuid.UUID]*model.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*model.Item)}
}

func (r *stubItemRepo) Create(_ context.Context, i *model.Item) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, restaurantID, id uuid.UUID) (*model.Item, error) {
	i, ok := r.items[id]
	if !ok || i.RestaurantID != restaurantID {
		return nil, errors.New("record not found")
	}
	return i, nil
}

func (r *stubItemRepo) List(_ context.Context, restaurantID uuid.UUID, _ repository.ItemFilter) ([]model.Item, int64, error) {
	var out []model.Item
	for _, i := range r.items {
		if i.RestaurantID == restaurantID && i.Active {
			out = append(out, *i)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubItemRepo) Update(_ context.Context, i *model.Item) error {
	r.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) Archive(_ context.Context, _, id uuid.UUID) error {
	if i, ok := r.items[id]; ok {
		i.Active = false
	}
	return nil
}

func (r *stubItemRepo) Restore(_ context.Context, _, id uuid.UUID) error {
	if i, ok := r.items[id]; ok {
		i.Active = true
	}
	return nil
}

func (r *stubItemRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Item, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return i, nil
}

func (r *stubItemRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, newStock decimal.Decimal, newExpiry *time.Time) error {
	i, ok := r.items[id]
	if !ok {
		return errors.New("record not found")
	}
	i.CurrentStock = newStock
	if newExpiry != nil {
		i.ExpiryDate = newExpiry
	}
	return nil
}

func (r *stubItemRepo) NeedingReplenishment(_ context.Context, restaurantID uuid.UUID, warn time.Duration) ([]model.Item, error) {
	var out []model.Item
	for _, i := range r.items {
		if !i.Active {
			continue
		}
		if restaurantID != uuid.Nil && i.RestaurantID != restaurantID {
			continue
		}
		if i.BelowMinimum() || i.ExpiresWithin(warn) {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// ── In-memory MovementRepository stub ────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, restaurantID uuid.UUID, filter repository.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.RestaurantID != restaurantID {
			continue
		}
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.OrderID != nil && (m.OrderID == nil || *m.OrderID != *filter.OrderID) {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) CountForItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var n int64
	for _, m := range r.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (r *stubMovementRepo) ForOrderItem(_ context.Context, orderItemID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.OrderItemID != nil && *m.OrderItemID == orderItemID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── In-memory DishRepository stub ────────────────────────────────────────────

type stubDishRepo struct {
	dishes map[uuid.UUID]*model.Dish
	sheets map[uuid.UUID][]model.TechnicalSheetEntry
}

func newStubDishRepo() *stubDishRepo {
	return &stubDishRepo{
		dishes: make(map[uuid.UUID]*model.Dish),
		sheets: make(map[uuid.UUID][]model.TechnicalSheetEntry),
	}
}

func (r *stubDishRepo) Create(_ context.Context, d *model.Dish) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.dishes[d.ID] = d
	return nil
}

func (r *stubDishRepo) FindByID(_ context.Context, restaurantID, id uuid.UUID) (*model.Dish, error) {
	d, ok := r.dishes[id]
	if !ok || d.RestaurantID != restaurantID {
		return nil, errors.New("record not found")
	}
	d.Sheet = r.sheets[id]
	return d, nil
}

func (r *stubDishRepo) List(_ context.Context, restaurantID uuid.UUID, _ string) ([]model.Dish, error) {
	var out []model.Dish
	for _, d := range r.dishes {
		if d.RestaurantID == restaurantID && d.Active {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDishRepo) Update(_ context.Context, d *model.Dish) error {
	r.dishes[d.ID] = d
	return nil
}

func (r *stubDishRepo) Archive(_ context.Context, _, id uuid.UUID) error {
	if d, ok := r.dishes[id]; ok {
		d.Active = false
	}
	return nil
}

func (r *stubDishRepo) SheetForDish(_ context.Context, dishID uuid.UUID) ([]model.TechnicalSheetEntry, error) {
	return r.sheets[dishID], nil
}

func (r *stubDishRepo) ReplaceSheet(_ context.Context, dishID uuid.UUID, entries []model.TechnicalSheetEntry) error {
	r.sheets[dishID] = entries
	return nil
}

var _ repository.DishRepository = (*stubDishRepo)(nil)

// ── In-memory TableRepository stub ───────────────────────────────────────────

type stubTableRepo struct {
	tables map[uuid.UUID]*model.Table
}

func newStubTableRepo() *stubTableRepo {
	return &stubTableRepo{tables: make(map[uuid.UUID]*model.Table)}
}

func (r *stubTableRepo) Create(_ context.Context, t *model.Table) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) FindByID(_ context.Context, restaurantID, id uuid.UUID) (*model.Table, error) {
	t, ok := r.tables[id]
	if !ok || t.RestaurantID != restaurantID {
		return nil, errors.New("record not found")
	}
	return t, nil
}

func (r *stubTableRepo) List(_ context.Context, restaurantID uuid.UUID) ([]model.Table, error) {
	var out []model.Table
	for _, t := range r.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTableRepo) Update(_ context.Context, t *model.Table) error {
	r.tables[t.ID] = t
	return nil
}

func (r *stubTableRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	if t, ok := r.tables[id]; ok && t.Status == model.TableFree {
		delete(r.tables, id)
	}
	return nil
}

func (r *stubTableRepo) OccupyTx(_ *gorm.DB, tableID, orderID uuid.UUID) error {
	t, ok := r.tables[tableID]
	if !ok {
		return repository.ErrTableUnavailable
	}
	if t.Status != model.TableFree && t.Status != model.TableReserved {
		return repository.ErrTableUnavailable
	}
	t.Status = model.TableOccupied
	t.CurrentOrderID = &orderID
	return nil
}

func (r *stubTableRepo) ReleaseTx(_ *gorm.DB, tableID uuid.UUID) error {
	if t, ok := r.tables[tableID]; ok {
		t.Status = model.TableFree
		t.CurrentOrderID = nil
	}
	return nil
}

func (r *stubTableRepo) Reserve(_ context.Context, _, id uuid.UUID) error {
	t, ok := r.tables[id]
	if !ok || t.Status != model.TableFree {
		return repository.ErrTableUnavailable
	}
	t.Status = model.TableReserved
	return nil
}

var _ repository.TableRepository = (*stubTableRepo)(nil)

// ── In-memory OrderRepository stub ───────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	items  map[uuid.UUID]*model.OrderItem
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[uuid.UUID]*model.Order),
		items:  make(map[uuid.UUID]*model.OrderItem),
	}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, restaurantID, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.RestaurantID != restaurantID {
		return nil, errors.New("record not found")
	}
	o.Items = nil
	for _, it := range r.items {
		if it.OrderID == id {
			o.Items = append(o.Items, *it)
		}
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, restaurantID uuid.UUID, _ repository.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.RestaurantID == restaurantID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) AddItemTx(_ *gorm.DB, item *model.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	r.items[item.ID] = item
	return nil
}

func (r *stubOrderRepo) FindItem(_ context.Context, orderID, itemID uuid.UUID) (*model.OrderItem, error) {
	it, ok := r.items[itemID]
	if !ok || it.OrderID != orderID {
		return nil, errors.New("record not found")
	}
	return it, nil
}

func (r *stubOrderRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *stubOrderRepo) PurgeItemsTx(_ *gorm.DB, orderID uuid.UUID) error {
	for id, it := range r.items {
		if it.OrderID == orderID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *stubOrderRepo) UpdateItemStatus(_ context.Context, itemID uuid.UUID, status string) error {
	it, ok := r.items[itemID]
	if !ok {
		return errors.New("record not found")
	}
	it.Status = status
	return nil
}

func (r *stubOrderRepo) AccrueTotalTx(_ *gorm.DB, orderID uuid.UUID, delta decimal.Decimal) error {
	o, ok := r.orders[orderID]
	if !ok {
		return errors.New("record not found")
	}
	o.Total = o.Total.Add(delta)
	if o.Total.IsNegative() {
		o.Total = decimal.Zero
	}
	return nil
}

func (r *stubOrderRepo) CloseTx(_ *gorm.DB, orderID uuid.UUID, status string, total decimal.Decimal, paymentMethod *string, closedAt time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return errors.New("record not found")
	}
	o.Status = status
	o.Total = total
	o.PaymentMethod = paymentMethod
	o.ClosedAt = &closedAt
	return nil
}

func (r *stubOrderRepo) KitchenQueue(_ context.Context, restaurantID uuid.UUID) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, it := range r.items {
		o, ok := r.orders[it.OrderID]
		if !ok || o.RestaurantID != restaurantID {
			continue
		}
		if o.Status == model.OrderOpen && it.Status == model.ItemPending {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) RevenueByPayment(_ context.Context, restaurantID uuid.UUID, date string) ([]repository.PaymentRevenue, error) {
	byMethod := make(map[string]*repository.PaymentRevenue)
	for _, o := range r.orders {
		if o.RestaurantID != restaurantID || o.Status != model.OrderClosed || o.ClosedAt == nil {
			continue
		}
		if o.ClosedAt.Format("2006-01-02") != date || o.PaymentMethod == nil {
			continue
		}
		row, ok := byMethod[*o.PaymentMethod]
		if !ok {
			row = &repository.PaymentRevenue{PaymentMethod: *o.PaymentMethod}
			byMethod[*o.PaymentMethod] = row
		}
		row.Orders++
		row.Revenue = row.Revenue.Add(o.Total)
	}
	var out []repository.PaymentRevenue
	for _, row := range byMethod {
		out = append(out, *row)
	}
	return out, nil
}

func (r *stubOrderRepo) DailyCovers(_ context.Context, restaurantID uuid.UUID, date string) (int64, error) {
	var covers int64
	for _, o := range r.orders {
		if o.RestaurantID != restaurantID || o.Status != model.OrderClosed || o.ClosedAt == nil {
			continue
		}
		if o.ClosedAt.Format("2006-01-02") == date {
			covers += int64(o.GuestCount)
		}
	}
	return covers, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)
