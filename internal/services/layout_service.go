package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/grid"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/models/dtos"
	"route-vending/tablegrid/internal/models/entities"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

const DefaultCreatorName = "Somebody"

// Layout sources reported to clients.
const (
	LayoutSourceRemote  = "remote"
	LayoutSourceCache   = "cache"
	LayoutSourceDefault = "default"
)

// LayoutStore is the remote layout persistence.
type LayoutStore interface {
	Get(ctx context.Context, userID string) (*entities.LayoutPreference, error)
	Upsert(ctx context.Context, pref *entities.LayoutPreference) error
}

// ColumnLister supplies the current column collection.
type ColumnLister interface {
	ListColumns(ctx context.Context) ([]gormModels.TableColumn, error)
}

type cachedLayout struct {
	ColumnOrder      []string `json:"columnOrder"`
	ColumnVisibility []string `json:"columnVisibility"`
	CreatorName      string   `json:"creatorName"`
	CreatorURL       string   `json:"creatorUrl"`
}

// LayoutService resolves per-user column layouts: remote store first, then
// the local cache, then defaults computed from the columns.
type LayoutService struct {
	store   LayoutStore
	columns ColumnLister
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

func NewLayoutService(store LayoutStore, columns ColumnLister, cache common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *LayoutService {
	return &LayoutService{
		store:   store,
		columns: columns,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
	}
}

func layoutCacheKey(userID string) string {
	return string(constants.CachePrefixLayout) + userID
}

func (s *LayoutService) GetLayout(ctx context.Context, userID string) (*dtos.LayoutResponse, error) {
	cols, err := s.columns.ListColumns(ctx)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, userID, cols), nil
}

// Resolve never fails: every read problem degrades to the next source.
// The result is normalized against cols.
func (s *LayoutService) Resolve(ctx context.Context, userID string, cols []gormModels.TableColumn) *dtos.LayoutResponse {
	stored, source := s.load(ctx, userID)

	var layout grid.Layout
	if stored == nil {
		layout = grid.DefaultLayout(cols)
		stored = &cachedLayout{}
	} else {
		layout = grid.NormalizeLayout(grid.Layout{
			ColumnOrder:    stored.ColumnOrder,
			VisibleColumns: stored.ColumnVisibility,
		}, cols)
		if len(layout.VisibleColumns) == 0 {
			layout.VisibleColumns = append([]string(nil), layout.ColumnOrder...)
		}
	}

	return &dtos.LayoutResponse{
		UserID:           userID,
		ColumnOrder:      layout.ColumnOrder,
		ColumnVisibility: layout.VisibleColumns,
		CreatorName:      creatorName(stored.CreatorName),
		CreatorURL:       stored.CreatorURL,
		Source:           source,
	}
}

func (s *LayoutService) load(ctx context.Context, userID string) (*cachedLayout, string) {
	log := logging.GetLogger().With("user_id", userID)

	pref, err := s.store.Get(ctx, userID)
	switch {
	case err != nil:
		log.Warnw("Remote layout read failed, falling back", "error", err)
	case pref != nil:
		layout := &cachedLayout{
			ColumnOrder:      pref.ColumnOrder,
			ColumnVisibility: pref.ColumnVisibility,
			CreatorName:      pref.CreatorName,
			CreatorURL:       pref.CreatorURL,
		}
		s.cache.Set(layoutCacheKey(userID), layout, s.ttl)
		return layout, LayoutSourceRemote
	}

	var cached cachedLayout
	hit := s.cache.GetInto(layoutCacheKey(userID), &cached)
	s.metrics.CacheLookup(string(constants.CachePrefixLayout), hit)
	if hit {
		s.metrics.LayoutFallback(LayoutSourceCache)
		log.Debugw("Layout served from cache")
		return &cached, LayoutSourceCache
	}

	s.metrics.LayoutFallback(LayoutSourceDefault)
	log.Debugw("No saved layout, using defaults")
	return nil, LayoutSourceDefault
}

// SaveLayout normalizes and persists the layout. The local cache is always
// refreshed; a remote failure is logged and the layout is reported as cached.
func (s *LayoutService) SaveLayout(ctx context.Context, req dtos.LayoutRequest) (*dtos.LayoutResponse, error) {
	if err := dtos.Validate(req); err != nil {
		return nil, err
	}
	cols, err := s.columns.ListColumns(ctx)
	if err != nil {
		return nil, err
	}

	layout := grid.NormalizeLayout(grid.Layout{
		ColumnOrder:    req.ColumnOrder,
		VisibleColumns: req.ColumnVisibility,
	}, cols)
	if len(layout.VisibleColumns) == 0 {
		return nil, constants.NewFieldError("columnVisibility", constants.MsgLastVisibleColumn)
	}

	return s.save(ctx, req.UserID, layout, strings.TrimSpace(req.CreatorName), strings.TrimSpace(req.CreatorURL)), nil
}

func (s *LayoutService) save(ctx context.Context, userID string, layout grid.Layout, creator, creatorURL string) *dtos.LayoutResponse {
	s.cache.Set(layoutCacheKey(userID), &cachedLayout{
		ColumnOrder:      layout.ColumnOrder,
		ColumnVisibility: layout.VisibleColumns,
		CreatorName:      creator,
		CreatorURL:       creatorURL,
	}, s.ttl)

	source := LayoutSourceRemote
	err := s.store.Upsert(ctx, &entities.LayoutPreference{
		UserID:           userID,
		ColumnOrder:      layout.ColumnOrder,
		ColumnVisibility: layout.VisibleColumns,
		CreatorName:      creator,
		CreatorURL:       creatorURL,
		UpdatedAt:        time.Now().UTC(),
	})
	if err != nil {
		logging.Warn("Remote layout save failed, kept in cache", "user_id", userID, "error", err)
		source = LayoutSourceCache
	}

	return &dtos.LayoutResponse{
		UserID:           userID,
		ColumnOrder:      layout.ColumnOrder,
		ColumnVisibility: layout.VisibleColumns,
		CreatorName:      creatorName(creator),
		CreatorURL:       creatorURL,
		Source:           source,
	}
}

// ToggleColumn flips one column's visibility. Hiding the last visible column
// is rejected.
func (s *LayoutService) ToggleColumn(ctx context.Context, userID, columnID string) (*dtos.LayoutResponse, error) {
	cols, err := s.columns.ListColumns(ctx)
	if err != nil {
		return nil, err
	}

	var target *gormModels.TableColumn
	for i := range cols {
		if cols[i].ID == columnID {
			target = &cols[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("column %s: %w", columnID, constants.ErrNotFound)
	}

	current := s.Resolve(ctx, userID, cols)
	next, err := grid.ToggleVisibility(grid.Layout{
		ColumnOrder:    current.ColumnOrder,
		VisibleColumns: current.ColumnVisibility,
	}, *target)
	if err != nil {
		return nil, err
	}

	creator := current.CreatorName
	if creator == DefaultCreatorName {
		creator = ""
	}
	return s.save(ctx, userID, next, creator, current.CreatorURL), nil
}

func creatorName(name string) string {
	if name == "" {
		return DefaultCreatorName
	}
	return name
}
