package grid

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection is the explicit ordering applied to a column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState names the sorted column. A nil *SortState means canonical order.
// Persisted marks a sort already written back as the canonical row order;
// such a sort is shown as the active indicator but not applied again.
type SortState struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
	Persisted bool          `json:"persisted,omitempty"`
}

// OrderColumn sorts by the persisted sequence number and is only offered
// while a filter is active.
const OrderColumn = "order"

var sortableColumns = []string{"route", "code", "trip", "location", "kilometer"}

// SortableColumns lists the columns that accept a sort toggle.
func SortableColumns(filtersActive bool) []string {
	out := slices.Clone(sortableColumns)
	if filtersActive {
		out = append(out, OrderColumn)
	}
	return out
}

// IsSortable reports whether column can be sorted in the current mode.
func IsSortable(column string, filtersActive bool) bool {
	return slices.Contains(SortableColumns(filtersActive), column)
}

// NextSort cycles none -> asc -> desc -> none for column. Switching to a
// different column starts over at asc.
func NextSort(cur *SortState, column string) *SortState {
	if cur == nil || cur.Column != column {
		return &SortState{Column: column, Direction: SortAsc}
	}
	if cur.Direction == SortAsc {
		return &SortState{Column: column, Direction: SortDesc}
	}
	return nil
}

// SortRows returns a stably sorted copy of rows. When pinDepot is set the
// depot row keeps its leading position and is excluded from the comparison.
func SortRows(rows []AnnotatedRow, s SortState, pinDepot bool) []AnnotatedRow {
	out := slices.Clone(rows)

	body := out
	if pinDepot && len(out) > 0 && out[0].IsDepot() {
		body = out[1:]
	}

	compare := comparatorFor(s.Column)
	if s.Direction == SortDesc {
		asc := compare
		compare = func(a, b *AnnotatedRow) int { return -asc(a, b) }
	}

	slices.SortStableFunc(body, func(a, b AnnotatedRow) int {
		return compare(&a, &b)
	})
	return out
}

func comparatorFor(column string) func(a, b *AnnotatedRow) int {
	coll := collate.New(language.English)

	switch column {
	case "code":
		return func(a, b *AnnotatedRow) int {
			return CompareCode(coll, a.Code, b.Code)
		}
	case "kilometer":
		return func(a, b *AnnotatedRow) int {
			return cmp.Compare(kilometerValue(a), kilometerValue(b))
		}
	case OrderColumn:
		return func(a, b *AnnotatedRow) int {
			return cmp.Compare(a.No, b.No)
		}
	default:
		return func(a, b *AnnotatedRow) int {
			av, _ := a.Field(column)
			bv, _ := b.Field(column)
			return coll.CompareString(av, bv)
		}
	}
}

// CompareCode orders two codes numerically when both parse fully as
// integers and by English collation otherwise.
func CompareCode(coll *collate.Collator, a, b string) int {
	ai, aerr := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	bi, berr := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	if aerr == nil && berr == nil {
		return cmp.Compare(ai, bi)
	}
	return coll.CompareString(a, b)
}

func kilometerValue(r *AnnotatedRow) float64 {
	if r.KilometerValue != nil {
		return *r.KilometerValue
	}
	v, err := strconv.ParseFloat(r.Kilometer, 64)
	if err != nil {
		return 0
	}
	return v
}
