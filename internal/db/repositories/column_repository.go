package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "route-vending/tablegrid/internal/models/gorm"

	"gorm.io/gorm"
)

// ColumnRepository persists column definitions using GORM
type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) List(ctx context.Context) ([]gormModels.TableColumn, error) {
	var cols []gormModels.TableColumn
	err := r.db.WithContext(ctx).
		Order("sort_order, id").
		Find(&cols).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch columns: %w", err)
	}
	return cols, nil
}

func (r *ColumnRepository) GetByID(ctx context.Context, id string) (*gormModels.TableColumn, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ColumnRepository) GetByDataKey(ctx context.Context, dataKey string) (*gormModels.TableColumn, error) {
	return r.first(ctx, "data_key = ?", dataKey)
}

func (r *ColumnRepository) first(ctx context.Context, query string, arg string) (*gormModels.TableColumn, error) {
	var col gormModels.TableColumn
	err := r.db.WithContext(ctx).
		Where(query, arg).
		First(&col).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch column: %w", err)
	}
	return &col, nil
}

// DataKeys returns every data key in use.
func (r *ColumnRepository) DataKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).Model(&gormModels.TableColumn{}).Pluck("data_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch data keys: %w", err)
	}
	return keys, nil
}

// Create appends the column, or places it at the 1-based position.
func (r *ColumnRepository) Create(ctx context.Context, col *gormModels.TableColumn, position *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &gormModels.TableColumn{})
		if err != nil {
			return err
		}
		col.SortOrder = next

		if err := tx.Create(col).Error; err != nil {
			return fmt.Errorf("failed to create column: %w", err)
		}

		if position == nil {
			return nil
		}
		if err := placeAt(tx, &gormModels.TableColumn{}, col.ID, *position); err != nil {
			return err
		}
		return tx.Where("id = ?", col.ID).First(col).Error
	})
}

func (r *ColumnRepository) Update(ctx context.Context, col *gormModels.TableColumn) error {
	if err := r.db.WithContext(ctx).Save(col).Error; err != nil {
		return fmt.Errorf("failed to update column: %w", err)
	}
	return nil
}

func (r *ColumnRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.TableColumn{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete column: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ColumnRepository) Reorder(ctx context.Context, ids []string) ([]gormModels.TableColumn, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := resequence(tx, &gormModels.TableColumn{}, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.List(ctx)
}
