package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// LayoutRepository stores per-user column layouts with sqlx.
type LayoutRepository struct {
	db *sqlx.DB
}

func NewLayoutRepository(db *sqlx.DB) *LayoutRepository {
	return &LayoutRepository{db}
}

// Get returns nil, nil when the user has no saved layout.
func (r *LayoutRepository) Get(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
	var pref entities.LayoutPreference

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.GetLayoutByUserID), userID).StructScan(&pref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch layout: %w", err)
	}
	return &pref, nil
}

func (r *LayoutRepository) Upsert(ctx context.Context, pref *entities.LayoutPreference) error {
	if _, err := r.db.NamedExecContext(ctx, constants.UpsertLayout, pref); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

func (r *LayoutRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(constants.DeleteLayoutByUserID), userID); err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}
	return nil
}
