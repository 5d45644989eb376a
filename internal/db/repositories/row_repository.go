package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "route-vending/tablegrid/internal/models/gorm"

	"gorm.io/gorm"
)

// RowRepository persists table rows using GORM
type RowRepository struct {
	db *gorm.DB
}

func NewRowRepository(db *gorm.DB) *RowRepository {
	return &RowRepository{db: db}
}

// List returns every row in canonical order.
func (r *RowRepository) List(ctx context.Context) ([]gormModels.TableRow, error) {
	var rows []gormModels.TableRow
	err := r.db.WithContext(ctx).
		Order("sort_order, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows: %w", err)
	}
	return rows, nil
}

// GetByID returns nil, nil when the row does not exist.
func (r *RowRepository) GetByID(ctx context.Context, id string) (*gormModels.TableRow, error) {
	var row gormModels.TableRow
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch row: %w", err)
	}
	return &row, nil
}

// Create appends the row after the current last one, or places it at the
// 1-based position when position is non-nil.
func (r *RowRepository) Create(ctx context.Context, row *gormModels.TableRow, position *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx, &gormModels.TableRow{})
		if err != nil {
			return err
		}
		row.SortOrder = next

		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create row: %w", err)
		}

		if position == nil {
			return nil
		}
		if err := placeAt(tx, &gormModels.TableRow{}, row.ID, *position); err != nil {
			return err
		}
		return tx.Where("id = ?", row.ID).First(row).Error
	})
}

// Update writes every column of row.
func (r *RowRepository) Update(ctx context.Context, row *gormModels.TableRow) error {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}
	return nil
}

// Delete reports false when nothing was deleted.
func (r *RowRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.TableRow{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete row: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Reorder rewrites sort_order for all rows in one transaction and returns
// the rows in their new order.
func (r *RowRepository) Reorder(ctx context.Context, ids []string) ([]gormModels.TableRow, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := resequence(tx, &gormModels.TableRow{}, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.List(ctx)
}
