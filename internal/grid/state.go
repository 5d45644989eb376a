package grid

import (
	"slices"
	"strings"

	"route-vending/tablegrid/internal/constants"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

// ViewState is the per-user interactive state between renders.
type ViewState struct {
	Filters           Filters    `json:"filters"`
	Sort              *SortState `json:"sort"`
	Page              int        `json:"page"`
	PageSize          int        `json:"pageSize"`
	LastFilteredCount int        `json:"lastFilteredCount"`
}

// NewViewState returns the state of a fresh session.
func NewViewState() *ViewState {
	return &ViewState{Page: 1, PageSize: constants.DefaultPageSize, LastFilteredCount: -1}
}

// SetSearch replaces the search term.
func (s *ViewState) SetSearch(term string) {
	s.Filters.Search = strings.TrimSpace(term)
}

// SetRouteFilter replaces the inclusive route filter.
func (s *ViewState) SetRouteFilter(routes []string) {
	s.Filters.Routes = compact(routes)
}

// SetTripFilter replaces the exclusive trip filter.
func (s *ViewState) SetTripFilter(trips []string) {
	s.Filters.Trips = compact(trips)
}

// ClearFilters drops every filter. A sort on the order column is dropped too
// since it is only valid while filtering.
func (s *ViewState) ClearFilters() {
	s.Filters = Filters{}
	if s.Sort != nil && s.Sort.Column == OrderColumn {
		s.Sort = nil
	}
}

// ToggleSort advances the tri-state sort for column.
func (s *ViewState) ToggleSort(column string) error {
	if !IsSortable(column, s.Filters.Active()) {
		if column == OrderColumn {
			return constants.NewFieldError("column", constants.MsgSortNeedsFilter)
		}
		return constants.NewFieldError("column", "column is not sortable: "+column)
	}
	s.Sort = NextSort(s.Sort, column)
	return nil
}

// SetPageSize changes the page size and returns to the first page.
func (s *ViewState) SetPageSize(size int) error {
	if !ValidPageSize(size) {
		return constants.NewFieldError("pageSize", "unsupported page size")
	}
	s.PageSize = size
	s.Page = 1
	return nil
}

// GoToPage records the requested page. Clamping happens on render.
func (s *ViewState) GoToPage(page int) {
	s.Page = max(1, page)
}

// Reconcile resets to page 1 when the filtered row count changed since the
// previous render.
func (s *ViewState) Reconcile(filteredCount int) {
	if s.LastFilteredCount >= 0 && s.LastFilteredCount != filteredCount {
		s.Page = 1
	}
	s.LastFilteredCount = filteredCount
}

// Compose renders the state over rows and columns, reconciling paging.
func (s *ViewState) Compose(rows []gormModels.TableRow, columns []gormModels.TableColumn, layout Layout) View {
	if s.PageSize == 0 {
		s.PageSize = constants.DefaultPageSize
	}
	annotated, _ := FilteredRows(rows, s.Filters, s.Sort)
	s.Reconcile(len(annotated))

	view := Compose(ViewInput{
		Rows:     rows,
		Columns:  columns,
		Layout:   layout,
		Filters:  s.Filters,
		Sort:     s.Sort,
		Page:     s.Page,
		PageSize: s.PageSize,
	})
	s.Page = view.Page.Number
	return view
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
