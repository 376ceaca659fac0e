package service

import (
	"context"
	"testing"

	"salonpos/internal/dto"
	"salonpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	restaurant uuid.UUID
	dishes     *stubDishRepo
	tables     *stubTableRepo
	items      *stubItemRepo
	svc        CatalogService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		restaurant: uuid.New(),
		dishes:     newStubDishRepo(),
		tables:     newStubTableRepo(),
		items:      newStubItemRepo(),
	}
	f.svc = NewCatalogService(f.dishes, f.tables, f.items, nil)
	return f
}

func TestCreateDishDefaultsCategory(t *testing.T) {
	f := newCatalogFixture(t)

	resp, err := f.svc.CreateDish(context.Background(), f.restaurant, dto.CreateDishRequest{
		Name:  "Caesar Salad",
		Price: dec("9.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "general", resp.Category)
	assert.True(t, resp.Active)

	_, err = f.svc.CreateDish(context.Background(), f.restaurant, dto.CreateDishRequest{
		Name:  "Freebie",
		Price: dec("0"),
	})
	assert.Error(t, err)
}

func TestReplaceSheetValidatesItems(t *testing.T) {
	f := newCatalogFixture(t)

	lettuce := &model.Item{
		ID:           uuid.New(),
		RestaurantID: f.restaurant,
		Name:         "Lettuce",
		PurchaseUnit: "unit",
		Active:       true,
	}
	f.items.items[lettuce.ID] = lettuce

	dish, err := f.svc.CreateDish(context.Background(), f.restaurant, dto.CreateDishRequest{
		Name: "Caesar Salad", Price: dec("9.50"),
	})
	require.NoError(t, err)
	dishID := uuid.MustParse(dish.ID)

	resp, err := f.svc.ReplaceSheet(context.Background(), f.restaurant, dishID, dto.ReplaceSheetRequest{
		Entries: []dto.SheetEntryRequest{
			{ItemID: lettuce.ID.String(), QuantityPerSale: dec("0.5"), Unit: "unit"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Sheet, 1)
	assert.Equal(t, lettuce.ID.String(), resp.Sheet[0].ItemID)
	assert.True(t, resp.Sheet[0].QuantityPerSale.Equal(dec("0.5")))

	// Unknown item aborts before any row lands
	_, err = f.svc.ReplaceSheet(context.Background(), f.restaurant, dishID, dto.ReplaceSheetRequest{
		Entries: []dto.SheetEntryRequest{
			{ItemID: uuid.NewString(), QuantityPerSale: dec("1"), Unit: "unit"},
		},
	})
	assert.Error(t, err)
	assert.Len(t, f.dishes.sheets[dishID], 1)

	// Non-positive quantity rejected
	_, err = f.svc.ReplaceSheet(context.Background(), f.restaurant, dishID, dto.ReplaceSheetRequest{
		Entries: []dto.SheetEntryRequest{
			{ItemID: lettuce.ID.String(), QuantityPerSale: dec("0"), Unit: "unit"},
		},
	})
	assert.Error(t, err)
}

func TestReserveTableTransitions(t *testing.T) {
	f := newCatalogFixture(t)

	created, err := f.svc.CreateTable(context.Background(), f.restaurant, dto.CreateTableRequest{
		TableNumber: 7,
		Capacity:    4,
	})
	require.NoError(t, err)
	tableID := uuid.MustParse(created.ID)

	reserved, err := f.svc.ReserveTable(context.Background(), f.restaurant, tableID)
	require.NoError(t, err)
	assert.Equal(t, model.TableReserved, reserved.Status)

	// A reserved table cannot be reserved again
	_, err = f.svc.ReserveTable(context.Background(), f.restaurant, tableID)
	assert.ErrorIs(t, err, ErrTableUnavailable)
}

func TestDeleteTableOnlyWhenFree(t *testing.T) {
	f := newCatalogFixture(t)

	created, err := f.svc.CreateTable(context.Background(), f.restaurant, dto.CreateTableRequest{
		TableNumber: 2, Capacity: 2,
	})
	require.NoError(t, err)
	tableID := uuid.MustParse(created.ID)

	occupied := f.tables.tables[tableID]
	occupied.Status = model.TableOccupied

	require.NoError(t, f.svc.DeleteTable(context.Background(), f.restaurant, tableID))
	_, stillThere := f.tables.tables[tableID]
	assert.True(t, stillThere, "occupied tables survive delete attempts")

	occupied.Status = model.TableFree
	require.NoError(t, f.svc.DeleteTable(context.Background(), f.restaurant, tableID))
	_, stillThere = f.tables.tables[tableID]
	assert.False(t, stillThere)
}
