package service

import (
	"context"

	"salonpos/internal/dto"
	"salonpos/internal/model"
	"salonpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IngredientRequirement is one resolved deduction: the item and the
// quantity needed, already converted to purchase units.
type IngredientRequirement struct {
	Item   *model.Item
	Needed decimal.Decimal
}

// RecipeResolver converts a dish sale into ingredient requirements.
// Pure computation — no writes, no errors raised for data gaps: sheet rows
// referencing missing or archived items are skipped, so a dish can
// partially lack stock data and still sell.
type RecipeResolver interface {
	Resolve(ctx context.Context, dishID uuid.UUID, quantitySold int) ([]IngredientRequirement, error)
}

type recipeResolver struct {
	dishes repository.DishRepository
}

func NewRecipeResolver(dishes repository.DishRepository) RecipeResolver {
	return &recipeResolver{dishes: dishes}
}

func (r *recipeResolver) Resolve(ctx context.Context, dishID uuid.UUID, quantitySold int) ([]IngredientRequirement, error) {
	entries, err := r.dishes.SheetForDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(int64(quantitySold))
	reqs := make([]IngredientRequirement, 0, len(entries))
	for _, e := range entries {
		if e.Item == nil || !e.Item.Active {
			// Referential gap — the sheet row points at a deleted/archived
			// item. Skip it rather than failing the whole dish.
			continue
		}
		needed := ToPurchaseUnits(e.Item, e.QuantityPerSale.Mul(qty), e.Unit)
		reqs = append(reqs, IngredientRequirement{Item: e.Item, Needed: needed})
	}
	return reqs, nil
}

// ToPurchaseUnits converts a quantity recorded in unit to the item's
// purchase units:
//
//	purchase unit → as is
//	sub-unit      → ÷ UnitsPerPackage
//	recipe unit   → ÷ (UnitsPerPackage × RecipeUnitsPerConsumption)
//
// An unrecognized unit is treated as purchase units already — the sale
// degrades gracefully instead of failing on bad sheet data.
func ToPurchaseUnits(item *model.Item, qty decimal.Decimal, unit string) decimal.Decimal {
	switch {
	case unit == item.PurchaseUnit:
		return qty
	case item.SubUnit != nil && unit == *item.SubUnit:
		if item.UnitsPerPackage.IsZero() {
			return qty
		}
		return qty.Div(item.UnitsPerPackage)
	case item.RecipeUnit != nil && unit == *item.RecipeUnit:
		factor := item.UnitsPerPackage.Mul(item.RecipeUnitsPerConsumption)
		if factor.IsZero() {
			return qty
		}
		return qty.Div(factor)
	default:
		log.Warn().
			Str("item", item.Name).
			Str("unit", unit).
			Msg("technical sheet unit not recognized, treating as purchase units")
		return qty
	}
}

// StockValidator checks resolved requirements against current stock.
// Pure and read-only: it must run before any ledger write, and a non-empty
// result blocks the sale entirely.
type StockValidator interface {
	Validate(reqs []IngredientRequirement) []dto.Shortfall
}

type stockValidator struct{}

func NewStockValidator() StockValidator { return &stockValidator{} }

func (stockValidator) Validate(reqs []IngredientRequirement) []dto.Shortfall {
	var shortfalls []dto.Shortfall
	for _, r := range reqs {
		if r.Item.CurrentStock.LessThan(r.Needed) {
			shortfalls = append(shortfalls, dto.Shortfall{
				ItemName:  r.Item.Name,
				Needed:    r.Needed,
				Available: r.Item.CurrentStock,
				Unit:      r.Item.PurchaseUnit,
			})
		}
	}
	return shortfalls
}
