package repository

import (
	"context"
	"errors"

	"salonpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TableRepository is the data access contract for dining tables.
type TableRepository interface {
	Create(ctx context.Context, t *model.Table) error
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Table, error)
	List(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error)
	Update(ctx context.Context, t *model.Table) error
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error

	// OccupyTx claims a free table for an order inside tx. The guarded
	// UPDATE makes two hosts racing for the same table lose cleanly: zero
	// rows affected means it was no longer free.
	OccupyTx(tx *gorm.DB, tableID, orderID uuid.UUID) error
	// ReleaseTx frees the table and clears the order back-reference.
	ReleaseTx(tx *gorm.DB, tableID uuid.UUID) error
	// Reserve flips a free table to reserved (no order involved).
	Reserve(ctx context.Context, restaurantID, id uuid.UUID) error
}

// ErrTableUnavailable is returned when a claimed table is not free.
var ErrTableUnavailable = errors.New("table is not free")

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) Create(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context, restaurantID uuid.UUID) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("table_number ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) Update(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tableRepo) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("restaurant_id = ? AND status = ?", restaurantID, model.TableFree).
		Delete(&model.Table{}, "id = ?", id).Error
}

func (r *tableRepo) OccupyTx(tx *gorm.DB, tableID, orderID uuid.UUID) error {
	res := tx.Model(&model.Table{}).
		Where("id = ? AND status IN ?", tableID, []string{model.TableFree, model.TableReserved}).
		Updates(map[string]interface{}{
			"status":           model.TableOccupied,
			"current_order_id": orderID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTableUnavailable
	}
	return nil
}

func (r *tableRepo) ReleaseTx(tx *gorm.DB, tableID uuid.UUID) error {
	return tx.Model(&model.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"status":           model.TableFree,
		"current_order_id": nil,
	}).Error
}

func (r *tableRepo) Reserve(ctx context.Context, restaurantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Table{}).
		Where("id = ? AND restaurant_id = ? AND status = ?", id, restaurantID, model.TableFree).
		Update("status", model.TableReserved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTableUnavailable
	}
	return nil
}
