package service

import (
	"context"
	"testing"
	"time"

	"salonpos/internal/config"
	"salonpos/internal/dto"
	"salonpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	restaurant uuid.UUID
	manager    uuid.UUID
	items      *stubItemRepo
	movements  *stubMovementRepo
	svc        InventoryService
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	f := &inventoryFixture{
		restaurant: uuid.New(),
		manager:    uuid.New(),
		items:      newStubItemRepo(),
		movements:  newStubMovementRepo(),
	}
	f.svc = NewInventoryService(f.items, f.movements,
		NewLedgerWriter(f.items, f.movements), nil, &config.Config{ExpiryWarnDays: 3})
	return f
}

func (f *inventoryFixture) seedItem(stock, min string) *model.Item {
	item := &model.Item{
		ID:                        uuid.New(),
		RestaurantID:              f.restaurant,
		Name:                      "Flour",
		CurrentStock:              dec(stock),
		MinStock:                  dec(min),
		PurchaseUnit:              "kg",
		UnitsPerPackage:           dec("1"),
		RecipeUnitsPerConsumption: dec("1"),
		Active:                    true,
	}
	f.items.items[item.ID] = item
	return item
}

func TestCreateItemBooksInitialStock(t *testing.T) {
	f := newInventoryFixture(t)

	resp, err := f.svc.CreateItem(context.Background(), f.restaurant, f.manager, dto.CreateItemRequest{
		Name:         "Olive Oil",
		PurchaseUnit: "bottle",
		MinStock:     dec("2"),
		InitialStock: dec("6"),
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(dec("6")))

	require.Len(t, f.movements.movements, 1)
	mov := f.movements.movements[0]
	assert.Equal(t, model.MovementEntry, mov.Type)
	assert.True(t, mov.PreviousStock.IsZero())
	assert.True(t, mov.NewStock.Equal(dec("6")))
	assert.Equal(t, "Initial stock", mov.Reason)
	assert.Equal(t, f.manager, mov.ChangedBy)
}

func TestCreateItemZeroInitialStockSkipsLedger(t *testing.T) {
	f := newInventoryFixture(t)

	_, err := f.svc.CreateItem(context.Background(), f.restaurant, f.manager, dto.CreateItemRequest{
		Name:         "Salt",
		PurchaseUnit: "kg",
	})
	require.NoError(t, err)
	assert.Empty(t, f.movements.movements)
}

func TestCreateItemValidation(t *testing.T) {
	f := newInventoryFixture(t)
	shot := "shot"

	_, err := f.svc.CreateItem(context.Background(), f.restaurant, f.manager, dto.CreateItemRequest{
		Name:         "Vodka",
		PurchaseUnit: "bottle",
		SubUnit:      &shot,
	})
	assert.Error(t, err, "sub_unit without units_per_package must fail")

	_, err = f.svc.CreateItem(context.Background(), f.restaurant, f.manager, dto.CreateItemRequest{
		Name:         "Soda Can",
		PurchaseUnit: "unit",
		DirectSale:   true,
	})
	assert.Error(t, err, "direct sale without a price must fail")
}

func TestWithdrawHappyPath(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("10", "2")

	resp, err := f.svc.Withdraw(context.Background(), f.restaurant, f.manager, dto.WithdrawalRequest{
		ItemID:   item.ID.String(),
		Quantity: dec("4"),
		Reason:   "spoilage",
	})
	require.NoError(t, err)

	assert.True(t, resp.PreviousStock.Equal(dec("10")))
	assert.True(t, resp.NewStock.Equal(dec("6")))
	assert.True(t, item.CurrentStock.Equal(dec("6")))
	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, "Withdrawal: spoilage", f.movements.movements[0].Reason)
}

func TestWithdrawExceedingStockRejected(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("3", "2")

	_, err := f.svc.Withdraw(context.Background(), f.restaurant, f.manager, dto.WithdrawalRequest{
		ItemID:   item.ID.String(),
		Quantity: dec("5"),
		Reason:   "spoilage",
	})
	assert.ErrorIs(t, err, ErrWithdrawalExceedsStock)

	// Nothing written, stock untouched
	assert.True(t, item.CurrentStock.Equal(dec("3")))
	assert.Empty(t, f.movements.movements)
}

func TestWithdrawRequiresPositiveQuantity(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("3", "2")

	_, err := f.svc.Withdraw(context.Background(), f.restaurant, f.manager, dto.WithdrawalRequest{
		ItemID:   item.ID.String(),
		Quantity: decimal.Zero,
		Reason:   "oops",
	})
	assert.ErrorIs(t, err, ErrQuantityNotPositive)
}

func TestRegisterEntryAddsStockAndRollsExpiry(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("2", "5")
	old := time.Now().AddDate(0, 0, 1)
	item.ExpiryDate = &old

	newExpiry := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	resp, err := f.svc.RegisterEntry(context.Background(), f.restaurant, f.manager, dto.EntryRequest{
		ItemID:    item.ID.String(),
		Quantity:  dec("10"),
		NewExpiry: &newExpiry,
	})
	require.NoError(t, err)

	assert.True(t, resp.NewStock.Equal(dec("12")))
	assert.True(t, item.CurrentStock.Equal(dec("12")))
	require.NotNil(t, item.ExpiryDate)
	assert.Equal(t, newExpiry, item.ExpiryDate.Format("2006-01-02"))
	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, model.MovementEntry, f.movements.movements[0].Type)
}

func TestAdjustSetsAbsoluteQuantity(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("10", "2")

	// Recount downwards
	resp, err := f.svc.Adjust(context.Background(), f.restaurant, f.manager, dto.AdjustmentRequest{
		ItemID:      item.ID.String(),
		NewQuantity: dec("7.5"),
		Reason:      "weekly count",
	})
	require.NoError(t, err)
	assert.True(t, resp.NewStock.Equal(dec("7.5")))
	assert.Equal(t, "Recount: weekly count", f.movements.movements[0].Reason)

	// Recount upwards, and zero is legitimate
	_, err = f.svc.Adjust(context.Background(), f.restaurant, f.manager, dto.AdjustmentRequest{
		ItemID:      item.ID.String(),
		NewQuantity: decimal.Zero,
		Reason:      "closing out",
	})
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.IsZero())

	_, err = f.svc.Adjust(context.Background(), f.restaurant, f.manager, dto.AdjustmentRequest{
		ItemID:      item.ID.String(),
		NewQuantity: dec("-1"),
		Reason:      "bad count",
	})
	assert.Error(t, err)
}

func TestShoppingListProjection(t *testing.T) {
	f := newInventoryFixture(t)

	below := f.seedItem("2", "10")
	below.Name = "Rice"

	expiring := f.seedItem("50", "8")
	expiring.Name = "Milk"
	soon := time.Now().AddDate(0, 0, 1)
	expiring.ExpiryDate = &soon

	healthy := f.seedItem("20", "5")
	healthy.Name = "Sugar"

	zeroMin := f.seedItem("0", "0")
	zeroMin.Name = "Garnish"

	list, err := f.svc.ShoppingList(context.Background(), f.restaurant)
	require.NoError(t, err)

	byName := make(map[string]dto.ShoppingListEntry)
	for _, e := range list {
		byName[e.Name] = e
	}
	require.Len(t, byName, 2)

	rice := byName["Rice"]
	assert.False(t, rice.Expiring)
	assert.True(t, rice.SuggestedQty.Equal(dec("8")), "gap to minimum")

	milk := byName["Milk"]
	assert.True(t, milk.Expiring)
	assert.True(t, milk.SuggestedQty.Equal(dec("8")), "full minimum when the batch is expiring")

	_, listed := byName["Garnish"]
	assert.False(t, listed, "non-positive suggestions are dropped")
}

func TestListMovementsFiltersByOrder(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("20", "2")
	orderID := uuid.New()

	require.NoError(t, f.movements.CreateTx(nil, &model.StockMovement{
		RestaurantID:  f.restaurant,
		ItemID:        item.ID,
		PreviousStock: dec("20"),
		NewStock:      dec("18"),
		Type:          model.MovementWithdrawal,
		Reason:        "Sale: 2x Soda Can",
		ChangedBy:     f.manager,
		OrderID:       &orderID,
	}))
	require.NoError(t, f.movements.CreateTx(nil, &model.StockMovement{
		RestaurantID:  f.restaurant,
		ItemID:        item.ID,
		PreviousStock: dec("18"),
		NewStock:      dec("17"),
		Type:          model.MovementWithdrawal,
		Reason:        "Withdrawal: spoilage",
		ChangedBy:     f.manager,
	}))

	resp, err := f.svc.ListMovements(context.Background(), f.restaurant, dto.MovementFilterQuery{
		OrderID: orderID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	require.NotNil(t, resp.Data[0].OrderID)
	assert.Equal(t, orderID.String(), *resp.Data[0].OrderID)
}

func TestArchiveAndRestoreItem(t *testing.T) {
	f := newInventoryFixture(t)
	item := f.seedItem("5", "2")

	require.NoError(t, f.svc.ArchiveItem(context.Background(), f.restaurant, item.ID))
	assert.False(t, item.Active)

	require.NoError(t, f.svc.RestoreItem(context.Background(), f.restaurant, item.ID))
	assert.True(t, item.Active)

	err := f.svc.ArchiveItem(context.Background(), f.restaurant, uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}
