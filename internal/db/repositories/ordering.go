package repositories

import (
	"database/sql"
	"fmt"

	"route-vending/tablegrid/internal/constants"

	"gorm.io/gorm"
)

// resequence rewrites sort_order for every record of model so that ids come
// first in the given order, followed by the records ids omitted in their
// previous order. The result is a dense 0..n-1 sequence.
func resequence(tx *gorm.DB, model interface{}, ids []string) ([]string, error) {
	var existing []string
	if err := tx.Model(model).Order("sort_order, id").Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load current order: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	seen := make(map[string]bool, len(ids))
	sequence := make([]string, 0, len(existing))
	for _, id := range ids {
		if !known[id] {
			return nil, fmt.Errorf("%w: %s", constants.ErrNotFound, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %s", constants.ErrValidation, id)
		}
		seen[id] = true
		sequence = append(sequence, id)
	}
	for _, id := range existing {
		if !seen[id] {
			sequence = append(sequence, id)
		}
	}

	for i, id := range sequence {
		if err := tx.Model(model).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
			return nil, fmt.Errorf("failed to update sort order of %s: %w", id, err)
		}
	}
	return sequence, nil
}

func nextSortOrder(tx *gorm.DB, model interface{}) (int, error) {
	var maxOrder sql.NullInt64
	if err := tx.Model(model).Select("MAX(sort_order)").Row().Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("failed to read max sort order: %w", err)
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// placeAt moves id to the 1-based position and resequences.
func placeAt(tx *gorm.DB, model interface{}, id string, position int) error {
	var existing []string
	if err := tx.Model(model).Order("sort_order, id").Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to load current order: %w", err)
	}

	order := make([]string, 0, len(existing))
	for _, e := range existing {
		if e != id {
			order = append(order, e)
		}
	}
	idx := max(0, min(position-1, len(order)))
	order = append(order[:idx], append([]string{id}, order[idx:]...)...)

	_, err := resequence(tx, model, order)
	return err
}
