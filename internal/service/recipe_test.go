package service

import (
	"context"
	"testing"

	"salonpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func vodkaItem() *model.Item {
	// Bought by bottle, poured by shot (20/bottle), measured in ml (25/shot)
	return &model.Item{
		ID:                        uuid.New(),
		Name:                      "Vodka",
		PurchaseUnit:              "bottle",
		SubUnit:                   strPtr("shot"),
		UnitsPerPackage:           dec("20"),
		RecipeUnit:                strPtr("ml"),
		RecipeUnitsPerConsumption: dec("25"),
		CurrentStock:              dec("3"),
		Active:                    true,
	}
}

func TestToPurchaseUnits(t *testing.T) {
	item := vodkaItem()

	t.Run("purchase unit passes through", func(t *testing.T) {
		got := ToPurchaseUnits(item, dec("2"), "bottle")
		assert.True(t, got.Equal(dec("2")))
	})

	t.Run("sub-unit divides by units per package", func(t *testing.T) {
		got := ToPurchaseUnits(item, dec("5"), "shot")
		assert.True(t, got.Equal(dec("0.25")))
	})

	t.Run("recipe unit divides by combined factor", func(t *testing.T) {
		// 50 ml of a 500 ml bottle
		got := ToPurchaseUnits(item, dec("50"), "ml")
		assert.True(t, got.Equal(dec("0.1")))
	})

	t.Run("unknown unit treated as purchase units", func(t *testing.T) {
		got := ToPurchaseUnits(item, dec("4"), "crate")
		assert.True(t, got.Equal(dec("4")))
	})

	t.Run("round trip preserves quantity", func(t *testing.T) {
		qty := dec("7.5")
		inPurchase := ToPurchaseUnits(item, qty, "ml")
		backInML := inPurchase.Mul(item.UnitsPerPackage).Mul(item.RecipeUnitsPerConsumption)
		assert.True(t, backInML.Equal(qty))
	})
}

func TestRecipeResolver(t *testing.T) {
	dishes := newStubDishRepo()
	restaurant := uuid.New()

	lime := &model.Item{
		ID:                        uuid.New(),
		RestaurantID:              restaurant,
		Name:                      "Lime",
		PurchaseUnit:              "unit",
		UnitsPerPackage:           dec("1"),
		RecipeUnitsPerConsumption: dec("1"),
		CurrentStock:              dec("10"),
		Active:                    true,
	}
	archived := &model.Item{
		ID:           uuid.New(),
		RestaurantID: restaurant,
		Name:         "Old Syrup",
		PurchaseUnit: "unit",
		Active:       false,
	}

	mojito := &model.Dish{ID: uuid.New(), RestaurantID: restaurant, Name: "Mojito", Active: true}
	require.NoError(t, dishes.Create(context.Background(), mojito))
	dishes.sheets[mojito.ID] = []model.TechnicalSheetEntry{
		{DishID: mojito.ID, ItemID: lime.ID, QuantityPerSale: dec("2"), Unit: "unit", Item: lime},
		{DishID: mojito.ID, ItemID: archived.ID, QuantityPerSale: dec("1"), Unit: "unit", Item: archived},
	}

	resolver := NewRecipeResolver(dishes)

	reqs, err := resolver.Resolve(context.Background(), mojito.ID, 3)
	require.NoError(t, err)

	// The archived ingredient is skipped, not an error
	require.Len(t, reqs, 1)
	assert.Equal(t, "Lime", reqs[0].Item.Name)
	assert.True(t, reqs[0].Needed.Equal(dec("6")))
}

func TestStockValidator(t *testing.T) {
	validator := NewStockValidator()

	lime := &model.Item{Name: "Lime", PurchaseUnit: "unit", CurrentStock: dec("4")}
	mint := &model.Item{Name: "Mint", PurchaseUnit: "bunch", CurrentStock: dec("2")}

	t.Run("sufficient stock yields no shortfalls", func(t *testing.T) {
		shortfalls := validator.Validate([]IngredientRequirement{
			{Item: lime, Needed: dec("4")},
			{Item: mint, Needed: dec("1")},
		})
		assert.Empty(t, shortfalls)
	})

	t.Run("reports every lacking ingredient", func(t *testing.T) {
		shortfalls := validator.Validate([]IngredientRequirement{
			{Item: lime, Needed: dec("6")},
			{Item: mint, Needed: dec("3")},
		})
		require.Len(t, shortfalls, 2)
		assert.Equal(t, "Lime", shortfalls[0].ItemName)
		assert.True(t, shortfalls[0].Needed.Equal(dec("6")))
		assert.True(t, shortfalls[0].Available.Equal(dec("4")))
		assert.Equal(t, "unit", shortfalls[0].Unit)
	})
}
