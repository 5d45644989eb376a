package grid

import (
	"slices"

	gormModels "route-vending/tablegrid/internal/models/gorm"
)

// ViewInput carries everything a render depends on.
type ViewInput struct {
	Rows     []gormModels.TableRow
	Columns  []gormModels.TableColumn
	Layout   Layout
	Filters  Filters
	Sort     *SortState
	Page     int
	PageSize int
}

// View is the derived, render-ready table.
type View struct {
	Columns         []gormModels.TableColumn `json:"columns"`
	Rows            []AnnotatedRow           `json:"rows"`
	Page            Page                     `json:"page"`
	Totals          map[string]string        `json:"totals"`
	DistanceMode    string                   `json:"distanceMode"`
	Sort            *SortState               `json:"sort"`
	SortableColumns []string                 `json:"sortableColumns"`
	RouteOptions    []string                 `json:"routeOptions"`
	TripOptions     []string                 `json:"tripOptions"`
	Stats           Stats                    `json:"stats"`
	FilteredIDs     []string                 `json:"-"`
}

// Stats are the headline counts shown above the table.
type Stats struct {
	TotalRows    int `json:"totalRows"`
	FilteredRows int `json:"filteredRows"`
	ImageCount   int `json:"imageCount"`
	NoTotal      int `json:"noTotal"`
}

// CanonicalOrder returns rows stably sorted by their persisted SortOrder.
func CanonicalOrder(rows []gormModels.TableRow) []gormModels.TableRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b gormModels.TableRow) int {
		return a.SortOrder - b.SortOrder
	})
	return out
}

// FilteredRows runs the filter, pin, annotate and optional sort stages and
// returns the complete filtered sequence before pagination.
func FilteredRows(rows []gormModels.TableRow, f Filters, s *SortState) ([]AnnotatedRow, DistanceMode) {
	canonical := CanonicalOrder(rows)
	depot := findDepot(canonical)

	mode := DirectMode
	if f.Active() {
		mode = CumulativeMode
	}

	filtered := FilterRows(canonical, f)
	annotated := Annotate(filtered, depot, mode)

	// a persisted sort already is the canonical order; sorting again on
	// kilometers recomputed from that order would invert it
	if s != nil && !s.Persisted && IsSortable(s.Column, f.Active()) {
		sorted := SortRows(annotated, *s, f.Active())
		plain := make([]gormModels.TableRow, len(sorted))
		for i := range sorted {
			plain[i] = sorted[i].TableRow
		}
		annotated = Annotate(plain, depot, mode)
	}
	return annotated, mode
}

// Compose derives the full view for one render.
func Compose(in ViewInput) View {
	annotated, mode := FilteredRows(in.Rows, in.Filters, in.Sort)

	columns := ProjectColumns(in.Columns, NormalizeLayout(in.Layout, in.Columns))
	pageRows, page := Paginate(annotated, in.Page, in.PageSize)

	ids := make([]string, len(annotated))
	for i := range annotated {
		ids[i] = annotated[i].ID
	}

	sortState := in.Sort
	if sortState != nil && !IsSortable(sortState.Column, in.Filters.Active()) {
		sortState = nil
	}

	return View{
		Columns:         columns,
		Rows:            pageRows,
		Page:            page,
		Totals:          Totals(annotated, columns),
		DistanceMode:    modeName(mode),
		Sort:            sortState,
		SortableColumns: SortableColumns(in.Filters.Active()),
		RouteOptions:    DistinctValues(in.Rows, "route"),
		TripOptions:     DistinctValues(in.Rows, "trip"),
		Stats:           ComputeStats(in.Rows, len(annotated)),
		FilteredIDs:     ids,
	}
}

func modeName(m DistanceMode) string {
	if m == CumulativeMode {
		return "cumulative"
	}
	return "direct"
}

// DistinctValues returns the sorted set of non-empty values for dataKey.
func DistinctValues(rows []gormModels.TableRow, dataKey string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i := range rows {
		v, _ := rows[i].Field(dataKey)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// ComputeStats summarises the whole row set.
func ComputeStats(rows []gormModels.TableRow, filtered int) Stats {
	s := Stats{TotalRows: len(rows), FilteredRows: filtered}
	for i := range rows {
		s.ImageCount += len(rows[i].Images)
		s.NoTotal += rows[i].No
	}
	return s
}
