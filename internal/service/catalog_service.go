package service

import (
	"context"
	"errors"
	"fmt"

	"salonpos/internal/dto"
	"salonpos/internal/infra"
	"salonpos/internal/model"
	"salonpos/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrDishNotFound  = errors.New("dish not found")
	ErrTableNotFound = errors.New("table not found")
)

// CatalogService owns the menu (dishes + technical sheets) and the dining
// room layout.
type CatalogService interface {
	CreateDish(ctx context.Context, restaurantID uuid.UUID, req dto.CreateDishRequest) (*dto.DishResponse, error)
	GetDish(ctx context.Context, restaurantID, id uuid.UUID) (*dto.DishResponse, error)
	ListDishes(ctx context.Context, restaurantID uuid.UUID, category string) ([]dto.DishResponse, error)
	UpdateDish(ctx context.Context, restaurantID, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error)
	ArchiveDish(ctx context.Context, restaurantID, id uuid.UUID) error
	ReplaceSheet(ctx context.Context, restaurantID, dishID uuid.UUID, req dto.ReplaceSheetRequest) (*dto.DishResponse, error)

	CreateTable(ctx context.Context, restaurantID uuid.UUID, req dto.CreateTableRequest) (*dto.TableResponse, error)
	ListTables(ctx context.Context, restaurantID uuid.UUID) ([]dto.TableResponse, error)
	UpdateTable(ctx context.Context, restaurantID, id uuid.UUID, req dto.UpdateTableRequest) (*dto.TableResponse, error)
	DeleteTable(ctx context.Context, restaurantID, id uuid.UUID) error
	ReserveTable(ctx context.Context, restaurantID, id uuid.UUID) (*dto.TableResponse, error)
}

type catalogService struct {
	dishes   repository.DishRepository
	tables   repository.TableRepository
	items    repository.ItemRepository
	notifier *infra.Notifier
}

func NewCatalogService(
	dishes repository.DishRepository,
	tables repository.TableRepository,
	items repository.ItemRepository,
	notifier *infra.Notifier,
) CatalogService {
	return &catalogService{dishes: dishes, tables: tables, items: items, notifier: notifier}
}

// ─── Dishes ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateDish(ctx context.Context, restaurantID uuid.UUID, req dto.CreateDishRequest) (*dto.DishResponse, error) {
	if !req.Price.IsPositive() {
		return nil, errors.New("price must be positive")
	}
	dish := &model.Dish{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Price:        req.Price,
		Category:     req.Category,
		Active:       true,
	}
	if dish.Category == "" {
		dish.Category = "general"
	}
	if err := s.dishes.Create(ctx, dish); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, restaurantID, "dishes", dish.ID)
	return dishToResponse(dish), nil
}

func (s *catalogService) GetDish(ctx context.Context, restaurantID, id uuid.UUID) (*dto.DishResponse, error) {
	dish, err := s.dishes.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, ErrDishNotFound
	}
	return dishToResponse(dish), nil
}

func (s *catalogService) ListDishes(ctx context.Context, restaurantID uuid.UUID, category string) ([]dto.DishResponse, error) {
	dishes, err := s.dishes.List(ctx, restaurantID, category)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DishResponse, 0, len(dishes))
	for i := range dishes {
		out = append(out, *dishToResponse(&dishes[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateDish(ctx context.Context, restaurantID, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error) {
	dish, err := s.dishes.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, ErrDishNotFound
	}
	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, errors.New("price must be positive")
		}
		dish.Price = *req.Price
	}
	if req.Category != nil {
		dish.Category = *req.Category
	}
	if err := s.dishes.Update(ctx, dish); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, restaurantID, "dishes", dish.ID)
	return dishToResponse(dish), nil
}

func (s *catalogService) ArchiveDish(ctx context.Context, restaurantID, id uuid.UUID) error {
	if _, err := s.dishes.FindByID(ctx, restaurantID, id); err != nil {
		return ErrDishNotFound
	}
	if err := s.dishes.Archive(ctx, restaurantID, id); err != nil {
		return err
	}
	s.notifier.Publish(ctx, restaurantID, "dishes", id)
	return nil
}

// ReplaceSheet swaps the full technical sheet. Every referenced item must
// exist in the same restaurant before any row is written.
func (s *catalogService) ReplaceSheet(ctx context.Context, restaurantID, dishID uuid.UUID, req dto.ReplaceSheetRequest) (*dto.DishResponse, error) {
	if _, err := s.dishes.FindByID(ctx, restaurantID, dishID); err != nil {
		return nil, ErrDishNotFound
	}

	entries := make([]model.TechnicalSheetEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		itemID, err := uuid.Parse(e.ItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid item_id %q: %w", e.ItemID, err)
		}
		if !e.QuantityPerSale.IsPositive() {
			return nil, fmt.Errorf("quantity_per_sale must be positive for item %s", e.ItemID)
		}
		item, err := s.items.FindByID(ctx, restaurantID, itemID)
		if err != nil {
			return nil, fmt.Errorf("sheet references unknown item %s", e.ItemID)
		}
		entries = append(entries, model.TechnicalSheetEntry{
			DishID:          dishID,
			ItemID:          item.ID,
			QuantityPerSale: e.QuantityPerSale,
			Unit:            e.Unit,
		})
	}

	if err := s.dishes.ReplaceSheet(ctx, dishID, entries); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, restaurantID, "dishes", dishID)
	return s.GetDish(ctx, restaurantID, dishID)
}

// ─── Tables ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateTable(ctx context.Context, restaurantID uuid.UUID, req dto.CreateTableRequest) (*dto.TableResponse, error) {
	t := &model.Table{
		RestaurantID: restaurantID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
		Status:       model.TableFree,
	}
	if err := s.tables.Create(ctx, t); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, restaurantID, "tables", t.ID)
	return tableToResponse(t), nil
}

func (s *catalogService) ListTables(ctx context.Context, restaurantID uuid.UUID) ([]dto.TableResponse, error) {
	tables, err := s.tables.List(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, *tableToResponse(&tables[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateTable(ctx context.Context, restaurantID, id uuid.UUID, req dto.UpdateTableRequest) (*dto.TableResponse, error) {
	t, err := s.tables.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, ErrTableNotFound
	}
	if req.Capacity != nil {
		t.Capacity = *req.Capacity
	}
	if err := s.tables.Update(ctx, t); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, restaurantID, "tables", t.ID)
	return tableToResponse(t), nil
}

// DeleteTable only removes free tables; the repository enforces the status
// guard in the delete itself.
func (s *catalogService) DeleteTable(ctx context.Context, restaurantID, id uuid.UUID) error {
	if _, err := s.tables.FindByID(ctx, restaurantID, id); err != nil {
		return ErrTableNotFound
	}
	if err := s.tables.Delete(ctx, restaurantID, id); err != nil {
		return err
	}
	s.notifier.Publish(ctx, restaurantID, "tables", id)
	return nil
}

func (s *catalogService) ReserveTable(ctx context.Context, restaurantID, id uuid.UUID) (*dto.TableResponse, error) {
	if err := s.tables.Reserve(ctx, restaurantID, id); err != nil {
		if errors.Is(err, repository.ErrTableUnavailable) {
			return nil, ErrTableUnavailable
		}
		return nil, err
	}
	t, err := s.tables.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, ErrTableNotFound
	}
	s.notifier.Publish(ctx, restaurantID, "tables", t.ID)
	return tableToResponse(t), nil
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func dishToResponse(d *model.Dish) *dto.DishResponse {
	sheet := make([]dto.SheetEntryResponse, 0, len(d.Sheet))
	for _, e := range d.Sheet {
		name := ""
		if e.Item != nil {
			name = e.Item.Name
		}
		sheet = append(sheet, dto.SheetEntryResponse{
			ItemID:          e.ItemID.String(),
			ItemName:        name,
			QuantityPerSale: e.QuantityPerSale,
			Unit:            e.Unit,
		})
	}
	return &dto.DishResponse{
		ID:       d.ID.String(),
		Name:     d.Name,
		Price:    d.Price,
		Category: d.Category,
		Active:   d.Active,
		Sheet:    sheet,
	}
}

func tableToResponse(t *model.Table) *dto.TableResponse {
	var orderID *string
	if t.CurrentOrderID != nil {
		s := t.CurrentOrderID.String()
		orderID = &s
	}
	return &dto.TableResponse{
		ID:             t.ID.String(),
		TableNumber:    t.TableNumber,
		Capacity:       t.Capacity,
		Status:         t.Status,
		CurrentOrderID: orderID,
	}
}
