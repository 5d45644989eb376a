package services

import (
	"context"
	"slices"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/grid"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/mutations"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

// ViewQuery carries the optional state changes of one view request. Nil
// fields leave the stored state alone.
type ViewQuery struct {
	UserID       string
	Search       *string
	Routes       []string
	Trips        []string
	Page         *int
	PageSize     *int
	ClearFilters bool
}

// ViewService keeps per-user view state and renders views over the cached
// table.
type ViewService struct {
	table       *TableCache
	layouts     *LayoutService
	coordinator *mutations.Coordinator
	cache       common.CacheInterface
	stateTTL    time.Duration
	metrics     *metrics.MetricsRegistry
}

func NewViewService(table *TableCache, layouts *LayoutService, coordinator *mutations.Coordinator, cache common.CacheInterface, stateTTL time.Duration, m *metrics.MetricsRegistry) *ViewService {
	return &ViewService{
		table:       table,
		layouts:     layouts,
		coordinator: coordinator,
		cache:       cache,
		stateTTL:    stateTTL,
		metrics:     m,
	}
}

func viewStateKey(userID string) string {
	return string(constants.CachePrefixViewState) + userID
}

// State returns the stored state for userID, or a fresh one.
func (s *ViewService) State(userID string) *grid.ViewState {
	state := grid.NewViewState()
	if !s.cache.GetInto(viewStateKey(userID), state) {
		return grid.NewViewState()
	}
	return state
}

func (s *ViewService) saveState(userID string, state *grid.ViewState) {
	s.cache.Set(viewStateKey(userID), state, s.stateTTL)
}

// View applies q to the user's state and renders.
func (s *ViewService) View(ctx context.Context, q ViewQuery) (*grid.View, error) {
	state := s.State(q.UserID)

	if q.ClearFilters {
		state.ClearFilters()
	}
	if q.Search != nil {
		state.SetSearch(*q.Search)
	}
	if q.Routes != nil {
		state.SetRouteFilter(q.Routes)
	}
	if q.Trips != nil {
		state.SetTripFilter(q.Trips)
	}
	if q.PageSize != nil {
		if err := state.SetPageSize(*q.PageSize); err != nil {
			return nil, err
		}
	}
	if q.Page != nil {
		state.GoToPage(*q.Page)
	}
	// an order sort does not survive its filters
	if state.Sort != nil && !grid.IsSortable(state.Sort.Column, state.Filters.Active()) {
		state.Sort = nil
	}

	return s.render(ctx, q.UserID, state)
}

// Sort advances the tri-state sort on column. With an edit session the
// resulting order is persisted as the canonical row order, merged into the
// slots the filtered rows occupy, and later renders show that order as is.
// Without a session the sort stays local and is applied on every render.
func (s *ViewService) Sort(ctx context.Context, session *auth.EditSession, userID, column string) (*grid.View, error) {
	state := s.State(userID)
	if err := state.ToggleSort(column); err != nil {
		return nil, err
	}

	if state.Sort != nil && session.CanEdit() {
		rows, err := s.table.Rows(ctx)
		if err != nil {
			return nil, err
		}
		annotated, _ := grid.FilteredRows(rows, state.Filters, state.Sort)
		canonical := canonicalIDs(rows)
		merged := grid.PersistedOrder(canonical, annotatedIDs(annotated), grid.PinnedDepot(annotated, state.Filters))

		if !slices.Equal(merged, canonical) {
			if _, err := s.coordinator.ApplySort(session, merged).Wait(ctx); err != nil {
				return nil, err
			}
		}
		state.Sort.Persisted = true
	}

	return s.render(ctx, userID, state)
}

// Move completes a drag gesture. from and to index the rows of the current
// page. The new order is persisted and any active sort is dropped.
func (s *ViewService) Move(ctx context.Context, session *auth.EditSession, userID string, from, to int) (*grid.View, error) {
	state := s.State(userID)

	rows, err := s.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	annotated, _ := grid.FilteredRows(rows, state.Filters, state.Sort)
	_, page := grid.Paginate(annotated, state.Page, state.PageSize)
	offset := (page.Number - 1) * page.Size

	moved, err := grid.MoveIndex(annotatedIDs(annotated), offset+from, offset+to)
	if err != nil {
		return nil, err
	}
	merged := grid.PersistedOrder(canonicalIDs(rows), moved, grid.PinnedDepot(annotated, state.Filters))

	if _, err := s.coordinator.ReorderRows(session, merged).Wait(ctx); err != nil {
		return nil, err
	}

	state.Sort = nil
	return s.render(ctx, userID, state)
}

func (s *ViewService) render(ctx context.Context, userID string, state *grid.ViewState) (*grid.View, error) {
	var (
		rows []gormModels.TableRow
		cols []gormModels.TableColumn
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.table.Rows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cols, err = s.table.Columns(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := s.layouts.Resolve(ctx, userID, cols)
	layout := grid.Layout{ColumnOrder: resolved.ColumnOrder, VisibleColumns: resolved.ColumnVisibility}

	started := time.Now()
	view := state.Compose(rows, cols, layout)
	s.metrics.ObserveCompose(started)

	s.saveState(userID, state)
	logging.Debug("View composed",
		"user_id", userID,
		"filtered_rows", view.Stats.FilteredRows,
		"page", view.Page.Number,
		"distance_mode", view.DistanceMode,
	)
	return &view, nil
}

func canonicalIDs(rows []gormModels.TableRow) []string {
	ordered := grid.CanonicalOrder(rows)
	ids := make([]string, len(ordered))
	for i := range ordered {
		ids[i] = ordered[i].ID
	}
	return ids
}

func annotatedIDs(rows []grid.AnnotatedRow) []string {
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	return ids
}
