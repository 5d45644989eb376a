package grid

import (
	"strings"

	gormModels "route-vending/tablegrid/internal/models/gorm"

	"golang.org/x/text/cases"
)

// Filters holds the three independent row predicates.
type Filters struct {
	Search string   `json:"search"`
	Routes []string `json:"routes"`
	Trips  []string `json:"trips"`
}

// Active reports whether any filter narrows the row set.
func (f Filters) Active() bool {
	return f.Search != "" || len(f.Routes) > 0 || len(f.Trips) > 0
}

// matcher evaluates Filters against rows. Not safe for concurrent use.
type matcher struct {
	folder cases.Caser
	term   string
	routes map[string]bool
	trips  map[string]bool
}

func newMatcher(f Filters) *matcher {
	m := &matcher{
		folder: cases.Fold(),
		routes: toSet(f.Routes),
		trips:  toSet(f.Trips),
	}
	m.term = m.folder.String(f.Search)
	return m
}

func (m *matcher) matchesSearch(r *gormModels.TableRow) bool {
	if m.term == "" {
		return true
	}
	for _, v := range r.SearchValues() {
		if strings.Contains(m.folder.String(v), m.term) {
			return true
		}
	}
	return false
}

func (m *matcher) matchesRoute(r *gormModels.TableRow) bool {
	return len(m.routes) == 0 || m.routes[r.Route]
}

func (m *matcher) matchesTrip(r *gormModels.TableRow) bool {
	return len(m.trips) == 0 || !m.trips[r.Trip]
}

func (m *matcher) matches(r *gormModels.TableRow) bool {
	return m.matchesSearch(r) && m.matchesRoute(r) && m.matchesTrip(r)
}

// FilterRows applies the filters and, when any filter is active, pins the
// depot row first provided it matches the search term.
func FilterRows(rows []gormModels.TableRow, f Filters) []gormModels.TableRow {
	m := newMatcher(f)

	out := make([]gormModels.TableRow, 0, len(rows))
	for i := range rows {
		if m.matches(&rows[i]) {
			out = append(out, rows[i])
		}
	}

	if !f.Active() {
		return out
	}

	depot := findDepot(rows)
	if depot == nil {
		return out
	}

	pinned := make([]gormModels.TableRow, 0, len(out)+1)
	if m.matchesSearch(depot) {
		pinned = append(pinned, *depot)
	}
	for _, r := range out {
		if r.ID == depot.ID {
			continue
		}
		pinned = append(pinned, r)
	}
	return pinned
}

func findDepot(rows []gormModels.TableRow) *gormModels.TableRow {
	for i := range rows {
		if rows[i].IsDepot() {
			return &rows[i]
		}
	}
	return nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
