package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonpos/internal/config"
	"salonpos/internal/dto"
	"salonpos/internal/infra"
	"salonpos/internal/model"
	"salonpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsufficientStockError carries the structured shortfall report for an
// attempted sale. Handlers render it as a per-ingredient list rather than
// a flat message.
type InsufficientStockError struct {
	Shortfalls []dto.Shortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 1 {
		s := e.Shortfalls[0]
		return fmt.Sprintf("insufficient stock of %s: need %s, have %s %s",
			s.ItemName, s.Needed, s.Available, s.Unit)
	}
	return fmt.Sprintf("insufficient stock for %d ingredients", len(e.Shortfalls))
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrOrderNotOpen      = errors.New("order is not open")
	ErrPaymentRequired   = errors.New("payment method is required to close a sale")
	ErrTableUnavailable  = errors.New("table is not available")
	ErrCustomerNameBlank = errors.New("counter orders require a customer name")
)

// OrderService is the order aggregate: tab lifecycle, line items, kitchen
// flow. Every stock effect goes through the ledger writer inside the same
// transaction as the order mutation.
type OrderService interface {
	Open(ctx context.Context, restaurantID, waiterID uuid.UUID, req dto.OpenOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, restaurantID, orderID uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, restaurantID uuid.UUID, q dto.OrderFilterQuery) (*dto.OrderListResponse, error)
	AddItem(ctx context.Context, restaurantID, waiterID, orderID uuid.UUID, req dto.AddOrderItemRequest) (*dto.OrderResponse, error)
	RemoveItem(ctx context.Context, restaurantID, waiterID, orderID, orderItemID uuid.UUID) (*dto.OrderResponse, error)
	MarkItemReady(ctx context.Context, restaurantID, orderID, orderItemID uuid.UUID) error
	Close(ctx context.Context, restaurantID, waiterID, orderID uuid.UUID, req dto.CloseOrderRequest) (*dto.OrderResponse, error)
	KitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]dto.KitchenItemResponse, error)
}

type orderService struct {
	orders    repository.OrderRepository
	tables    repository.TableRepository
	items     repository.ItemRepository
	dishes    repository.DishRepository
	movements repository.MovementRepository
	resolver  RecipeResolver
	validator StockValidator
	ledger    LedgerWriter
	notifier  *infra.Notifier
	cfg       *config.Config
}

func NewOrderService(
	orders repository.OrderRepository,
	tables repository.TableRepository,
	items repository.ItemRepository,
	dishes repository.DishRepository,
	movements repository.MovementRepository,
	resolver RecipeResolver,
	validator StockValidator,
	ledger LedgerWriter,
	notifier *infra.Notifier,
	cfg *config.Config,
) OrderService {
	return &orderService{
		orders:    orders,
		tables:    tables,
		items:     items,
		dishes:    dishes,
		movements: movements,
		resolver:  resolver,
		validator: validator,
		ledger:    ledger,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *orderService) Open(ctx context.Context, restaurantID, waiterID uuid.UUID, req dto.OpenOrderRequest) (*dto.OrderResponse, error) {
	order := &model.Order{
		RestaurantID: restaurantID,
		WaiterID:     waiterID,
		Status:       model.OrderOpen,
		GuestCount:   req.GuestCount,
		OpenedAt:     time.Now(),
	}
	if order.GuestCount < 1 {
		order.GuestCount = 1
	}

	var tableID *uuid.UUID
	if req.TableID != nil {
		tid, err := uuid.Parse(*req.TableID)
		if err != nil {
			return nil, fmt.Errorf("invalid table_id: %w", err)
		}
		// Scope check before claiming
		if _, err := s.tables.FindByID(ctx, restaurantID, tid); err != nil {
			return nil, errors.New("table not found")
		}
		tableID = &tid
		order.TableID = &tid
	} else {
		if req.CustomerName == nil || *req.CustomerName == "" {
			return nil, ErrCustomerNameBlank
		}
		order.CustomerName = req.CustomerName
	}

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.CreateTx(tx, order); err != nil {
			return err
		}
		if tableID != nil {
			if err := s.tables.OccupyTx(tx, *tableID, order.ID); err != nil {
				if errors.Is(err, repository.ErrTableUnavailable) {
					return ErrTableUnavailable
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "orders", order.ID)
	if tableID != nil {
		s.notifier.Publish(ctx, restaurantID, "tables", *tableID)
	}
	return orderToResponse(order), nil
}

// ── AddItem ──────────────────────────────────────────────────────────────────
// Sequence per sale: resolve ingredients → validate stock (any shortfall
// aborts before any write) → one transaction {insert line, ledger write per
// ingredient under row lock, atomic total accrual}.

func (s *orderService) AddItem(ctx context.Context, restaurantID, waiterID, orderID uuid.UUID, req dto.AddOrderItemRequest) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != model.OrderOpen {
		return nil, ErrOrderNotOpen
	}
	if (req.DishID == nil) == (req.ItemID == nil) {
		return nil, errors.New("exactly one of dish_id or item_id must be set")
	}

	line := &model.OrderItem{
		OrderID:  order.ID,
		Quantity: req.Quantity,
		Status:   model.ItemPending,
		Notes:    req.Notes,
	}

	// Pre-flight resolution and validation, outside the transaction.
	var reqs []IngredientRequirement
	switch {
	case req.DishID != nil:
		did, err := uuid.Parse(*req.DishID)
		if err != nil {
			return nil, fmt.Errorf("invalid dish_id: %w", err)
		}
		dish, err := s.dishes.FindByID(ctx, restaurantID, did)
		if err != nil {
			return nil, errors.New("dish not found")
		}
		if !dish.Active {
			return nil, fmt.Errorf("dish %s is archived and cannot be sold", dish.Name)
		}
		reqs, err = s.resolver.Resolve(ctx, did, req.Quantity)
		if err != nil {
			return nil, err
		}
		line.DishID = &did
		line.Name = dish.Name
		line.UnitPrice = dish.Price

	case req.ItemID != nil:
		iid, err := uuid.Parse(*req.ItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid item_id: %w", err)
		}
		item, err := s.items.FindByID(ctx, restaurantID, iid)
		if err != nil {
			return nil, errors.New("item not found")
		}
		if !item.Active {
			return nil, fmt.Errorf("item %s is archived and cannot be sold", item.Name)
		}
		if !item.DirectSale || item.Price == nil {
			return nil, fmt.Errorf("item %s is not sold standalone", item.Name)
		}
		// Direct sale: the quantity is already in the item's native unit.
		reqs = []IngredientRequirement{{Item: item, Needed: decimal.NewFromInt(int64(req.Quantity))}}
		line.ItemID = &iid
		line.Name = item.Name
		line.UnitPrice = *item.Price
	}

	if shortfalls := s.validator.Validate(reqs); len(shortfalls) > 0 {
		return nil, &InsufficientStockError{Shortfalls: shortfalls}
	}

	lineValue := line.Value()
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.AddItemTx(tx, line); err != nil {
			return err
		}

		for _, r := range reqs {
			// Re-read under lock so concurrent sales serialize instead of
			// under-accounting the deduction.
			locked, err := s.items.LockByIDTx(tx, r.Item.ID)
			if err != nil {
				return fmt.Errorf("lock %s: %w", r.Item.Name, err)
			}
			newStock := locked.CurrentStock.Sub(r.Needed)
			reason := fmt.Sprintf("Sale: %dx %s — order %s", req.Quantity, line.Name, order.Label())
			lineID := line.ID
			if _, err := s.ledger.ApplyTx(tx, locked, newStock, nil,
				model.MovementWithdrawal, reason, waiterID, &order.ID, &lineID); err != nil {
				return err
			}
		}

		return s.orders.AccrueTotalTx(tx, order.ID, lineValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "orders", order.ID)
	s.notifier.Publish(ctx, restaurantID, "movements", order.ID)

	return s.Get(ctx, restaurantID, orderID)
}

// ── RemoveItem ───────────────────────────────────────────────────────────────
// Removal decrements the total (floored at zero). Whether the recorded
// deductions are reversed is explicit policy: RESTOCK_ON_ITEM_REMOVAL.
// Default off — removal models "already consumed", the deduction stands.

func (s *orderService) RemoveItem(ctx context.Context, restaurantID, waiterID, orderID, orderItemID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != model.OrderOpen {
		return nil, ErrOrderNotOpen
	}
	line, err := s.orders.FindItem(ctx, orderID, orderItemID)
	if err != nil {
		return nil, ErrOrderItemNotFound
	}

	var reversals []model.StockMovement
	if s.cfg != nil && s.cfg.RestockOnItemRemoval {
		reversals, err = s.movements.ForOrderItem(ctx, orderItemID)
		if err != nil {
			return nil, err
		}
	}

	lineValue := line.Value()
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.DeleteItemTx(tx, orderItemID); err != nil {
			return err
		}
		if err := s.orders.AccrueTotalTx(tx, order.ID, lineValue.Neg()); err != nil {
			return err
		}

		for _, mov := range reversals {
			deducted := mov.PreviousStock.Sub(mov.NewStock)
			if !deducted.IsPositive() {
				continue
			}
			locked, err := s.items.LockByIDTx(tx, mov.ItemID)
			if err != nil {
				return err
			}
			reason := fmt.Sprintf("Reversal: removed %s — order %s", line.Name, order.Label())
			if _, err := s.ledger.ApplyTx(tx, locked, locked.CurrentStock.Add(deducted), nil,
				model.MovementAdjustment, reason, waiterID, &order.ID, &orderItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "orders", order.ID)
	return s.Get(ctx, restaurantID, orderID)
}

// ── MarkItemReady ────────────────────────────────────────────────────────────

func (s *orderService) MarkItemReady(ctx context.Context, restaurantID, orderID, orderItemID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, restaurantID, orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Status != model.OrderOpen {
		return ErrOrderNotOpen
	}
	if _, err := s.orders.FindItem(ctx, orderID, orderItemID); err != nil {
		return ErrOrderItemNotFound
	}
	if err := s.orders.UpdateItemStatus(ctx, orderItemID, model.ItemReady); err != nil {
		return err
	}
	s.notifier.Publish(ctx, restaurantID, "orders", orderID)
	return nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// With items and a positive total this is a sale: payment method required,
// financial record persists. With no items or zero total it is a
// cancellation: residual items are purged, total zeroed, no financial
// record. Either way a bound table is released in the same transaction.

func (s *orderService) Close(ctx context.Context, restaurantID, waiterID, orderID uuid.UUID, req dto.CloseOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != model.OrderOpen {
		return nil, ErrOrderNotOpen
	}

	now := time.Now()
	isSale := len(order.Items) > 0 && order.Total.IsPositive()

	if isSale && req.PaymentMethod == nil {
		return nil, ErrPaymentRequired
	}

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if isSale {
			if err := s.orders.CloseTx(tx, order.ID, model.OrderClosed, order.Total, req.PaymentMethod, now); err != nil {
				return err
			}
			order.Status = model.OrderClosed
			order.PaymentMethod = req.PaymentMethod
		} else {
			// Cancellation: purge residual lines, zero the total.
			if err := s.orders.PurgeItemsTx(tx, order.ID); err != nil {
				return err
			}
			if err := s.orders.CloseTx(tx, order.ID, model.OrderCancelled, decimal.Zero, nil, now); err != nil {
				return err
			}
			order.Status = model.OrderCancelled
			order.Total = decimal.Zero
			order.Items = nil
		}
		order.ClosedAt = &now

		if order.TableID != nil {
			return s.tables.ReleaseTx(tx, *order.TableID)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "orders", order.ID)
	if order.TableID != nil {
		s.notifier.Publish(ctx, restaurantID, "tables", *order.TableID)
	}
	return orderToResponse(order), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, restaurantID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, restaurantID uuid.UUID, q dto.OrderFilterQuery) (*dto.OrderListResponse, error) {
	filter := repository.OrderFilter{Status: q.Status, Date: q.Date, Page: q.Page, Limit: q.Limit}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.orders.List(ctx, restaurantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *orderService) KitchenQueue(ctx context.Context, restaurantID uuid.UUID) ([]dto.KitchenItemResponse, error) {
	items, err := s.orders.KitchenQueue(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	queue := make([]dto.KitchenItemResponse, 0, len(items))
	for _, it := range items {
		queue = append(queue, dto.KitchenItemResponse{
			OrderID:   it.OrderID.String(),
			ItemID:    it.ID.String(),
			Name:      it.Name,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
			CreatedAt: it.CreatedAt.Format(time.RFC3339),
		})
	}
	return queue, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		var dishID, itemID *string
		if it.DishID != nil {
			s := it.DishID.String()
			dishID = &s
		}
		if it.ItemID != nil {
			s := it.ItemID.String()
			itemID = &s
		}
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID.String(),
			DishID:    dishID,
			ItemID:    itemID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Status:    it.Status,
			Notes:     it.Notes,
		})
	}

	var tableID *string
	if o.TableID != nil {
		s := o.TableID.String()
		tableID = &s
	}
	var closedAt *string
	if o.ClosedAt != nil {
		s := o.ClosedAt.Format(time.RFC3339)
		closedAt = &s
	}

	return &dto.OrderResponse{
		ID:            o.ID.String(),
		TableID:       tableID,
		CustomerName:  o.CustomerName,
		Status:        o.Status,
		WaiterID:      o.WaiterID.String(),
		Total:         o.Total,
		GuestCount:    o.GuestCount,
		PaymentMethod: o.PaymentMethod,
		Items:         items,
		OpenedAt:      o.OpenedAt.Format(time.RFC3339),
		ClosedAt:      closedAt,
	}
}
