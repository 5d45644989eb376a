package grid

import (
	"fmt"
	"slices"

	"route-vending/tablegrid/internal/constants"
)

// MoveIndex moves the id at from to position to, shifting the rest.
// Indices are zero-based.
func MoveIndex(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) {
		return nil, constants.NewFieldError("from", fmt.Sprintf("index %d out of range", from))
	}
	if to < 0 || to >= len(ids) {
		return nil, constants.NewFieldError("to", fmt.Sprintf("index %d out of range", to))
	}

	out := slices.Clone(ids)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, nil
}

// MergeSubset writes subset, in its order, into the slots its members occupy
// in canonical. Ids of subset missing from canonical are ignored.
func MergeSubset(canonical, subset []string) []string {
	members := make(map[string]bool, len(subset))
	for _, id := range subset {
		members[id] = true
	}

	ordered := make([]string, 0, len(subset))
	for _, id := range subset {
		if slices.Contains(canonical, id) {
			ordered = append(ordered, id)
		}
	}

	out := slices.Clone(canonical)
	next := 0
	for i, id := range out {
		if members[id] && next < len(ordered) {
			out[i] = ordered[next]
			next++
		}
	}
	return out
}

// PinnedDepot returns the id of the depot when the filters pin it to the top
// of shown, or "" when nothing is pinned.
func PinnedDepot(shown []AnnotatedRow, f Filters) string {
	if !f.Active() || len(shown) == 0 || !shown[0].IsDepot() {
		return ""
	}
	return shown[0].ID
}

// PersistedOrder merges the shown order into canonical. A pinned depot is
// left out so it keeps its own canonical slot.
func PersistedOrder(canonical, shown []string, pinned string) []string {
	if pinned != "" {
		shown = slices.DeleteFunc(slices.Clone(shown), func(id string) bool { return id == pinned })
	}
	return MergeSubset(canonical, shown)
}

// InsertAt moves id to the 1-based position in ids, clamped to the valid
// range. id is appended first if absent.
func InsertAt(ids []string, id string, position int) []string {
	out := slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == id })
	idx := max(0, min(position-1, len(out)))
	return slices.Insert(out, idx, id)
}
