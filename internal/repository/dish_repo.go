package repository

import (
	"context"

	"salonpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DishRepository is the data access contract for dishes and their
// technical sheets.
type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Dish, error)
	List(ctx context.Context, restaurantID uuid.UUID, category string) ([]model.Dish, error)
	Update(ctx context.Context, d *model.Dish) error
	Archive(ctx context.Context, restaurantID, id uuid.UUID) error

	// SheetForDish returns the technical sheet rows with items preloaded.
	// Rows whose item no longer exists come back with a nil Item — the
	// resolver skips them.
	SheetForDish(ctx context.Context, dishID uuid.UUID) ([]model.TechnicalSheetEntry, error)
	// ReplaceSheet swaps the full technical sheet of a dish atomically.
	ReplaceSheet(ctx context.Context, dishID uuid.UUID, entries []model.TechnicalSheetEntry) error
}

type dishRepo struct{ db *gorm.DB }

func NewDishRepository(db *gorm.DB) DishRepository { return &dishRepo{db: db} }

func (r *dishRepo) Create(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dishRepo) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Preload("Sheet.Item").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *dishRepo) List(ctx context.Context, restaurantID uuid.UUID, category string) ([]model.Dish, error) {
	var dishes []model.Dish
	q := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND active = true", restaurantID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("name ASC").Find(&dishes).Error
	return dishes, err
}

func (r *dishRepo) Update(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *dishRepo) Archive(ctx context.Context, restaurantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Dish{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("active", false).Error
}

func (r *dishRepo) SheetForDish(ctx context.Context, dishID uuid.UUID) ([]model.TechnicalSheetEntry, error) {
	var entries []model.TechnicalSheetEntry
	err := r.db.WithContext(ctx).
		Where("dish_id = ?", dishID).
		Preload("Item").
		Find(&entries).Error
	return entries, err
}

func (r *dishRepo) ReplaceSheet(ctx context.Context, dishID uuid.UUID, entries []model.TechnicalSheetEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dish_id = ?", dishID).Delete(&model.TechnicalSheetEntry{}).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].DishID = dishID
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}
