package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/db/repositories"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/models/dtos"
	"route-vending/tablegrid/internal/models/entities"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLayoutStore struct {
	getFunc    func(ctx context.Context, userID string) (*entities.LayoutPreference, error)
	upsertFunc func(ctx context.Context, pref *entities.LayoutPreference) error
}

func (m *mockLayoutStore) Get(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
	return m.getFunc(ctx, userID)
}

func (m *mockLayoutStore) Upsert(ctx context.Context, pref *entities.LayoutPreference) error {
	return m.upsertFunc(ctx, pref)
}

type staticColumns []gormModels.TableColumn

func (s staticColumns) ListColumns(ctx context.Context) ([]gormModels.TableColumn, error) {
	return s, nil
}

var layoutColumns = staticColumns{
	{ID: "c-no", DataKey: "no", SortOrder: 0},
	{ID: "c-route", DataKey: "route", SortOrder: 1},
	{ID: "c-notes", DataKey: "notes", SortOrder: 2},
}

func TestLayoutService_DefaultsWhenNothingSaved(t *testing.T) {
	store := &mockLayoutStore{
		getFunc: func(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
			return nil, nil
		},
	}
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, metrics.NewMetricsRegistry())

	layout, err := svc.GetLayout(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceDefault, layout.Source)
	assert.Equal(t, []string{"c-no", "c-route", "c-notes"}, layout.ColumnOrder)
	assert.Equal(t, []string{"c-no", "c-route", "c-notes"}, layout.ColumnVisibility)
	assert.Equal(t, DefaultCreatorName, layout.CreatorName)
}

func TestLayoutService_RemoteLayoutIsNormalized(t *testing.T) {
	store := &mockLayoutStore{
		getFunc: func(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
			return &entities.LayoutPreference{
				UserID:           userID,
				ColumnOrder:      entities.StringArray{"c-route", "c-gone", "c-no"},
				ColumnVisibility: entities.StringArray{"c-route", "c-gone"},
				CreatorName:      "Aisyah",
			}, nil
		},
	}
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)

	layout, err := svc.GetLayout(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceRemote, layout.Source)
	assert.Equal(t, []string{"c-route", "c-no", "c-notes"}, layout.ColumnOrder)
	assert.Equal(t, []string{"c-route"}, layout.ColumnVisibility)
	assert.Equal(t, "Aisyah", layout.CreatorName)
}

func TestLayoutService_FallsBackToCache(t *testing.T) {
	remoteUp := true
	store := &mockLayoutStore{
		getFunc: func(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
			if !remoteUp {
				return nil, errors.New("connection refused")
			}
			return &entities.LayoutPreference{
				UserID:           userID,
				ColumnOrder:      entities.StringArray{"c-notes", "c-no", "c-route"},
				ColumnVisibility: entities.StringArray{"c-notes"},
			}, nil
		},
	}
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)
	ctx := context.Background()

	_, err := svc.GetLayout(ctx, "alice")
	require.NoError(t, err)

	remoteUp = false
	layout, err := svc.GetLayout(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceCache, layout.Source)
	assert.Equal(t, []string{"c-notes", "c-no", "c-route"}, layout.ColumnOrder)

	other, err := svc.GetLayout(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceDefault, other.Source)
}

func TestLayoutService_SaveLayout(t *testing.T) {
	var saved *entities.LayoutPreference
	store := &mockLayoutStore{
		upsertFunc: func(ctx context.Context, pref *entities.LayoutPreference) error {
			saved = pref
			return nil
		},
	}
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)

	layout, err := svc.SaveLayout(context.Background(), dtos.LayoutRequest{
		UserID:           "alice",
		ColumnOrder:      []string{"c-notes", "c-unknown"},
		ColumnVisibility: []string{"c-notes", "c-unknown"},
		CreatorName:      "  Aisyah ",
	})
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceRemote, layout.Source)
	assert.Equal(t, []string{"c-notes", "c-no", "c-route"}, layout.ColumnOrder)
	assert.Equal(t, []string{"c-notes"}, layout.ColumnVisibility)

	require.NotNil(t, saved)
	assert.Equal(t, "alice", saved.UserID)
	assert.Equal(t, "Aisyah", saved.CreatorName)
	assert.Equal(t, entities.StringArray{"c-notes"}, saved.ColumnVisibility)
}

func TestLayoutService_SaveRejectsNoVisibleColumns(t *testing.T) {
	store := &mockLayoutStore{
		upsertFunc: func(ctx context.Context, pref *entities.LayoutPreference) error {
			t.Fatal("layout must not be persisted")
			return nil
		},
	}
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)

	_, err := svc.SaveLayout(context.Background(), dtos.LayoutRequest{
		UserID:           "alice",
		ColumnOrder:      []string{"c-no"},
		ColumnVisibility: []string{"c-gone"},
	})
	assert.ErrorIs(t, err, constants.ErrValidation)
}

func TestLayoutService_SaveKeepsCacheWhenRemoteFails(t *testing.T) {
	store := &mockLayoutStore{
		getFunc: func(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
			return nil, errors.New("timeout")
		},
		upsertFunc: func(ctx context.Context, pref *entities.LayoutPreference) error {
			return errors.New("timeout")
		},
	}
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)
	ctx := context.Background()

	saved, err := svc.SaveLayout(ctx, dtos.LayoutRequest{
		UserID:           "alice",
		ColumnOrder:      []string{"c-route", "c-no", "c-notes"},
		ColumnVisibility: []string{"c-route"},
	})
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceCache, saved.Source)

	layout, err := svc.GetLayout(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, LayoutSourceCache, layout.Source)
	assert.Equal(t, []string{"c-route"}, layout.ColumnVisibility)
}

func TestLayoutService_ToggleColumn(t *testing.T) {
	conns := setupTestDB(t)
	svc := NewLayoutService(
		repositories.NewLayoutRepository(conns.SQL),
		layoutColumns,
		newMemoryCache(t),
		time.Hour,
		nil,
	)
	ctx := context.Background()

	layout, err := svc.ToggleColumn(ctx, "alice", "c-notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-no", "c-route"}, layout.ColumnVisibility)

	layout, err = svc.ToggleColumn(ctx, "alice", "c-route")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-no"}, layout.ColumnVisibility)

	_, err = svc.ToggleColumn(ctx, "alice", "c-no")
	assert.ErrorIs(t, err, constants.ErrProtected)

	layout, err = svc.ToggleColumn(ctx, "alice", "c-notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-no", "c-notes"}, layout.ColumnVisibility)

	_, err = svc.ToggleColumn(ctx, "alice", "c-missing")
	assert.ErrorIs(t, err, constants.ErrNotFound)

	stored, err := repositories.NewLayoutRepository(conns.SQL).Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entities.StringArray{"c-no", "c-notes"}, stored.ColumnVisibility)
	assert.Equal(t, "", stored.CreatorName)
}

// recordingLayoutStore keeps every upsert and serves the latest one.
func recordingLayoutStore() (*mockLayoutStore, *[]entities.LayoutPreference) {
	var saved []entities.LayoutPreference
	store := &mockLayoutStore{
		getFunc: func(ctx context.Context, userID string) (*entities.LayoutPreference, error) {
			if len(saved) == 0 {
				return nil, nil
			}
			last := saved[len(saved)-1]
			return &last, nil
		},
		upsertFunc: func(ctx context.Context, pref *entities.LayoutPreference) error {
			saved = append(saved, *pref)
			return nil
		},
	}
	return store, &saved
}

func assertSameLayout(t *testing.T, want, got entities.LayoutPreference) {
	t.Helper()
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.ColumnOrder, got.ColumnOrder)
	assert.Equal(t, want.ColumnVisibility, got.ColumnVisibility)
	assert.Equal(t, want.CreatorName, got.CreatorName)
	assert.Equal(t, want.CreatorURL, got.CreatorURL)
}

func TestLayoutService_SaveIsIdempotent(t *testing.T) {
	store, saved := recordingLayoutStore()
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)
	ctx := context.Background()

	req := dtos.LayoutRequest{
		UserID:           "alice",
		ColumnOrder:      []string{"c-route", "c-no", "c-notes"},
		ColumnVisibility: []string{"c-route", "c-notes"},
		CreatorName:      "Aisyah",
		CreatorURL:       "https://example.com/aisyah",
	}

	first, err := svc.SaveLayout(ctx, req)
	require.NoError(t, err)
	second, err := svc.SaveLayout(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, *saved, 2)
	assertSameLayout(t, (*saved)[0], (*saved)[1])

	layout, err := svc.GetLayout(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ColumnOrder, layout.ColumnOrder)
	assert.Equal(t, first.ColumnVisibility, layout.ColumnVisibility)
}

func TestLayoutService_TogglePairRestoresLayout(t *testing.T) {
	store, saved := recordingLayoutStore()
	svc := NewLayoutService(store, layoutColumns, newMemoryCache(t), time.Hour, nil)
	ctx := context.Background()

	original, err := svc.SaveLayout(ctx, dtos.LayoutRequest{
		UserID:           "alice",
		ColumnOrder:      []string{"c-notes", "c-no", "c-route"},
		ColumnVisibility: []string{"c-no", "c-route"},
		CreatorName:      "Aisyah",
	})
	require.NoError(t, err)

	shown, err := svc.ToggleColumn(ctx, "alice", "c-notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-no", "c-route", "c-notes"}, shown.ColumnVisibility)

	restored, err := svc.ToggleColumn(ctx, "alice", "c-notes")
	require.NoError(t, err)

	assert.Equal(t, original, restored)
	require.Len(t, *saved, 3)
	assertSameLayout(t, (*saved)[0], (*saved)[2])
}
