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

var (
	ErrWithdrawalExceedsStock = errors.New("withdrawal quantity exceeds current stock")
	ErrItemNotFound           = errors.New("item not found")
	ErrQuantityNotPositive    = errors.New("quantity must be positive")
)

// InventoryService owns the item catalog and every manual ledger path:
// entries, withdrawals, adjustments, the movement history and the
// shopping-list projection.
type InventoryService interface {
	CreateItem(ctx context.Context, restaurantID, actor uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, restaurantID, id uuid.UUID) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, restaurantID uuid.UUID, q dto.ItemFilterQuery) (*dto.ItemListResponse, error)
	UpdateItem(ctx context.Context, restaurantID, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	ArchiveItem(ctx context.Context, restaurantID, id uuid.UUID) error
	RestoreItem(ctx context.Context, restaurantID, id uuid.UUID) error

	Withdraw(ctx context.Context, restaurantID, actor uuid.UUID, req dto.WithdrawalRequest) (*dto.StockOperationResponse, error)
	RegisterEntry(ctx context.Context, restaurantID, actor uuid.UUID, req dto.EntryRequest) (*dto.StockOperationResponse, error)
	Adjust(ctx context.Context, restaurantID, actor uuid.UUID, req dto.AdjustmentRequest) (*dto.StockOperationResponse, error)

	ListMovements(ctx context.Context, restaurantID uuid.UUID, q dto.MovementFilterQuery) (*dto.MovementListResponse, error)
	ShoppingList(ctx context.Context, restaurantID uuid.UUID) ([]dto.ShoppingListEntry, error)
}

type inventoryService struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
	ledger    LedgerWriter
	notifier  *infra.Notifier
	cfg       *config.Config
}

func NewInventoryService(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	ledger LedgerWriter,
	notifier *infra.Notifier,
	cfg *config.Config,
) InventoryService {
	return &inventoryService{items: items, movements: movements, ledger: ledger, notifier: notifier, cfg: cfg}
}

// ─── Catalog ─────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateItem(ctx context.Context, restaurantID, actor uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if req.SubUnit != nil && (req.UnitsPerPackage == nil || !req.UnitsPerPackage.IsPositive()) {
		return nil, errors.New("units_per_package is required when sub_unit is set")
	}
	if req.RecipeUnit != nil && (req.RecipeUnitsPerConsumption == nil || !req.RecipeUnitsPerConsumption.IsPositive()) {
		return nil, errors.New("recipe_units_per_consumption is required when recipe_unit is set")
	}
	if req.DirectSale && req.Price == nil {
		return nil, errors.New("price is required for direct-sale items")
	}

	item := &model.Item{
		RestaurantID:              restaurantID,
		Name:                      req.Name,
		CurrentStock:              decimal.Zero,
		MinStock:                  req.MinStock,
		PurchaseUnit:              req.PurchaseUnit,
		SubUnit:                   req.SubUnit,
		UnitsPerPackage:           decimal.NewFromInt(1),
		RecipeUnit:                req.RecipeUnit,
		RecipeUnitsPerConsumption: decimal.NewFromInt(1),
		DirectSale:                req.DirectSale,
		Price:                     req.Price,
		Active:                    true,
	}
	if req.UnitsPerPackage != nil {
		item.UnitsPerPackage = *req.UnitsPerPackage
	}
	if req.RecipeUnitsPerConsumption != nil {
		item.RecipeUnitsPerConsumption = *req.RecipeUnitsPerConsumption
	}
	if req.ExpiryDate != nil {
		exp, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		item.ExpiryDate = &exp
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	// Initial stock arrives as an entry movement so day zero is on the
	// ledger too. The item is created at zero and topped up through the
	// same choke point every other stock change uses.
	if req.InitialStock.IsPositive() {
		txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
			_, err := s.ledger.ApplyTx(tx, item, req.InitialStock, item.ExpiryDate,
				model.MovementEntry, "Initial stock", actor, nil, nil)
			return err
		})
		if txErr != nil {
			return nil, txErr
		}
	}

	s.notifier.Publish(ctx, restaurantID, "items", item.ID)
	return itemToResponse(item), nil
}

func (s *inventoryService) GetItem(ctx context.Context, restaurantID, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return itemToResponse(item), nil
}

func (s *inventoryService) ListItems(ctx context.Context, restaurantID uuid.UUID, q dto.ItemFilterQuery) (*dto.ItemListResponse, error) {
	filter := repository.ItemFilter{Name: q.Name, Active: q.Active, Page: q.Page, Limit: q.Limit}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.items.List(ctx, restaurantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateItem changes descriptive fields only. Stock and expiry never move
// through here — those are ledger operations.
func (s *inventoryService) UpdateItem(ctx context.Context, restaurantID, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}
	if req.PurchaseUnit != nil {
		item.PurchaseUnit = *req.PurchaseUnit
	}
	if req.SubUnit != nil {
		item.SubUnit = req.SubUnit
	}
	if req.UnitsPerPackage != nil {
		item.UnitsPerPackage = *req.UnitsPerPackage
	}
	if req.RecipeUnit != nil {
		item.RecipeUnit = req.RecipeUnit
	}
	if req.RecipeUnitsPerConsumption != nil {
		item.RecipeUnitsPerConsumption = *req.RecipeUnitsPerConsumption
	}
	if req.DirectSale != nil {
		item.DirectSale = *req.DirectSale
	}
	if req.Price != nil {
		item.Price = req.Price
	}
	if item.DirectSale && item.Price == nil {
		return nil, errors.New("price is required for direct-sale items")
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, restaurantID, "items", item.ID)
	return itemToResponse(item), nil
}

func (s *inventoryService) ArchiveItem(ctx context.Context, restaurantID, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, restaurantID, id); err != nil {
		return ErrItemNotFound
	}
	if err := s.items.Archive(ctx, restaurantID, id); err != nil {
		return err
	}
	s.notifier.Publish(ctx, restaurantID, "items", id)
	return nil
}

func (s *inventoryService) RestoreItem(ctx context.Context, restaurantID, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, restaurantID, id); err != nil {
		return ErrItemNotFound
	}
	if err := s.items.Restore(ctx, restaurantID, id); err != nil {
		return err
	}
	s.notifier.Publish(ctx, restaurantID, "items", id)
	return nil
}

// ─── Ledger operations ───────────────────────────────────────────────────────

// Withdraw removes stock manually (waste, internal use, expiry). A quantity
// above current stock is rejected outright — the check repeats inside the
// transaction under the row lock, so a concurrent sale cannot slip through.
func (s *inventoryService) Withdraw(ctx context.Context, restaurantID, actor uuid.UUID, req dto.WithdrawalRequest) (*dto.StockOperationResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, ErrQuantityNotPositive
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item_id: %w", err)
	}
	item, err := s.items.FindByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	if item.CurrentStock.LessThan(req.Quantity) {
		return nil, ErrWithdrawalExceedsStock
	}

	reason := "Withdrawal: " + req.Reason
	if req.Notes != nil && *req.Notes != "" {
		reason += " — " + *req.Notes
	}

	var mov *model.StockMovement
	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		locked := item
		if tx != nil {
			locked, err = s.items.LockByIDTx(tx, itemID)
			if err != nil {
				return err
			}
		}
		if locked.CurrentStock.LessThan(req.Quantity) {
			return ErrWithdrawalExceedsStock
		}
		mov, err = s.ledger.ApplyTx(tx, locked, locked.CurrentStock.Sub(req.Quantity), nil,
			model.MovementWithdrawal, reason, actor, nil, nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "items", itemID)
	return movementToOperation(mov), nil
}

// RegisterEntry records arriving stock, optionally rolling the expiry date
// forward to the new batch's.
func (s *inventoryService) RegisterEntry(ctx context.Context, restaurantID, actor uuid.UUID, req dto.EntryRequest) (*dto.StockOperationResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, ErrQuantityNotPositive
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item_id: %w", err)
	}
	item, err := s.items.FindByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	var newExpiry *time.Time
	if req.NewExpiry != nil {
		exp, err := time.Parse("2006-01-02", *req.NewExpiry)
		if err != nil {
			return nil, fmt.Errorf("invalid new_expiry: %w", err)
		}
		newExpiry = &exp
	}

	reason := "Entry"
	if req.Notes != nil && *req.Notes != "" {
		reason += ": " + *req.Notes
	}

	var mov *model.StockMovement
	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		locked := item
		if tx != nil {
			locked, err = s.items.LockByIDTx(tx, itemID)
			if err != nil {
				return err
			}
		}
		mov, err = s.ledger.ApplyTx(tx, locked, locked.CurrentStock.Add(req.Quantity), newExpiry,
			model.MovementEntry, reason, actor, nil, nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "items", itemID)
	return movementToOperation(mov), nil
}

// Adjust sets the stock to an absolute recount value. Unlike withdrawals it
// may move in either direction, and reaching zero is legitimate.
func (s *inventoryService) Adjust(ctx context.Context, restaurantID, actor uuid.UUID, req dto.AdjustmentRequest) (*dto.StockOperationResponse, error) {
	if req.NewQuantity.IsNegative() {
		return nil, errors.New("new_quantity cannot be negative")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item_id: %w", err)
	}
	item, err := s.items.FindByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	var mov *model.StockMovement
	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		locked := item
		if tx != nil {
			locked, err = s.items.LockByIDTx(tx, itemID)
			if err != nil {
				return err
			}
		}
		mov, err = s.ledger.ApplyTx(tx, locked, req.NewQuantity, nil,
			model.MovementAdjustment, "Recount: "+req.Reason, actor, nil, nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.Publish(ctx, restaurantID, "items", itemID)
	return movementToOperation(mov), nil
}

// ─── History & projections ───────────────────────────────────────────────────

func (s *inventoryService) ListMovements(ctx context.Context, restaurantID uuid.UUID, q dto.MovementFilterQuery) (*dto.MovementListResponse, error) {
	filter := repository.MovementFilter{Type: q.Type, Page: q.Page, Limit: q.Limit}
	if q.ItemID != "" {
		id, err := uuid.Parse(q.ItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid item_id: %w", err)
		}
		filter.ItemID = &id
	}
	if q.OrderID != "" {
		id, err := uuid.Parse(q.OrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id: %w", err)
		}
		filter.OrderID = &id
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}

	movements, total, err := s.movements.List(ctx, restaurantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		data = append(data, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ShoppingList projects items needing replenishment into purchase
// suggestions. Expiring items suggest a full MinStock (the batch is
// presumed lost); below-minimum items suggest the gap to MinStock.
func (s *inventoryService) ShoppingList(ctx context.Context, restaurantID uuid.UUID) ([]dto.ShoppingListEntry, error) {
	warn := time.Duration(s.cfg.ExpiryWarnDays) * 24 * time.Hour
	items, err := s.items.NeedingReplenishment(ctx, restaurantID, warn)
	if err != nil {
		return nil, err
	}

	list := make([]dto.ShoppingListEntry, 0, len(items))
	for i := range items {
		it := &items[i]
		entry := dto.ShoppingListEntry{
			ItemID:       it.ID.String(),
			Name:         it.Name,
			CurrentStock: it.CurrentStock,
			MinStock:     it.MinStock,
			Unit:         it.PurchaseUnit,
		}
		if it.ExpiresWithin(warn) {
			entry.Expiring = true
			entry.SuggestedQty = it.MinStock
		} else {
			entry.SuggestedQty = it.MinStock.Sub(it.CurrentStock)
		}
		if !entry.SuggestedQty.IsPositive() {
			continue
		}
		list = append(list, entry)
	}
	return list, nil
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func itemToResponse(i *model.Item) *dto.ItemResponse {
	var expiry *string
	if i.ExpiryDate != nil {
		s := i.ExpiryDate.Format("2006-01-02")
		expiry = &s
	}
	return &dto.ItemResponse{
		ID:                        i.ID.String(),
		Name:                      i.Name,
		CurrentStock:              i.CurrentStock,
		MinStock:                  i.MinStock,
		PurchaseUnit:              i.PurchaseUnit,
		SubUnit:                   i.SubUnit,
		UnitsPerPackage:           i.UnitsPerPackage,
		RecipeUnit:                i.RecipeUnit,
		RecipeUnitsPerConsumption: i.RecipeUnitsPerConsumption,
		ExpiryDate:                expiry,
		DirectSale:                i.DirectSale,
		Price:                     i.Price,
		Active:                    i.Active,
		BelowMinimum:              i.BelowMinimum(),
	}
}

func movementToOperation(m *model.StockMovement) *dto.StockOperationResponse {
	return &dto.StockOperationResponse{
		ItemID:        m.ItemID.String(),
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		MovementType:  m.Type,
	}
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	var orderID *string
	if m.OrderID != nil {
		s := m.OrderID.String()
		orderID = &s
	}
	itemName := ""
	if m.Item != nil {
		itemName = m.Item.Name
	}
	return dto.MovementResponse{
		ID:            m.ID.String(),
		ItemID:        m.ItemID.String(),
		ItemName:      itemName,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Type:          m.Type,
		Reason:        m.Reason,
		ChangedBy:     m.ChangedBy.String(),
		OrderID:       orderID,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}
