// Package grid derives the rendered table view from raw rows, columns and
// per-user layout: column projection, filtering, depot pinning, distance
// annotation, sorting, pagination and footer totals.
package grid

import (
	"sort"

	"route-vending/tablegrid/internal/constants"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

var coreDataKeys = func() map[string]bool {
	m := make(map[string]bool, len(constants.CoreDataKeys))
	for _, k := range constants.CoreDataKeys {
		m[k] = true
	}
	return m
}()

// Layout is a column order plus the set of visible column ids.
type Layout struct {
	ColumnOrder    []string `json:"columnOrder"`
	VisibleColumns []string `json:"columnVisibility"`
}

// IsCoreColumn reports whether the column is protected from deletion.
// Core identity is the data key, which stays stable when ids are regenerated.
func IsCoreColumn(col gormModels.TableColumn) bool {
	return IsCoreDataKey(col.DataKey)
}

// IsCoreDataKey reports whether dataKey belongs to the protected set.
func IsCoreDataKey(dataKey string) bool {
	return coreDataKeys[dataKey]
}

// CanHide reports whether col may be hidden given the current visible count.
func CanHide(col gormModels.TableColumn, visible bool, visibleCount int) bool {
	if IsCoreColumn(col) && visible && visibleCount <= 1 {
		return false
	}
	return true
}

// DefaultOrder returns the columns sorted by persisted sort order.
func DefaultOrder(cols []gormModels.TableColumn) []gormModels.TableColumn {
	out := make([]gormModels.TableColumn, len(cols))
	copy(out, cols)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// DefaultLayout shows every column in persisted order.
func DefaultLayout(cols []gormModels.TableColumn) Layout {
	ordered := DefaultOrder(cols)
	ids := make([]string, len(ordered))
	for i, c := range ordered {
		ids[i] = c.ID
	}
	visible := make([]string, len(ids))
	copy(visible, ids)
	return Layout{ColumnOrder: ids, VisibleColumns: visible}
}

// NormalizeLayout drops ids unknown to cols and appends known columns missing
// from the order. Visibility is only pruned; new columns are not auto-shown.
func NormalizeLayout(l Layout, cols []gormModels.TableColumn) Layout {
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.ID] = true
	}

	seen := make(map[string]bool, len(l.ColumnOrder))
	order := make([]string, 0, len(cols))
	for _, id := range l.ColumnOrder {
		if known[id] && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, c := range DefaultOrder(cols) {
		if !seen[c.ID] {
			order = append(order, c.ID)
			seen[c.ID] = true
		}
	}

	visibleSeen := make(map[string]bool, len(l.VisibleColumns))
	visible := make([]string, 0, len(l.VisibleColumns))
	for _, id := range l.VisibleColumns {
		if known[id] && !visibleSeen[id] {
			visible = append(visible, id)
			visibleSeen[id] = true
		}
	}

	return Layout{ColumnOrder: order, VisibleColumns: visible}
}

// ProjectColumns maps the layout order to column objects, drops unknown ids and
// hidden columns. An empty projection falls back to every column.
func ProjectColumns(cols []gormModels.TableColumn, l Layout) []gormModels.TableColumn {
	byID := make(map[string]gormModels.TableColumn, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}
	visible := make(map[string]bool, len(l.VisibleColumns))
	for _, id := range l.VisibleColumns {
		visible[id] = true
	}

	out := make([]gormModels.TableColumn, 0, len(l.ColumnOrder))
	seen := make(map[string]bool, len(l.ColumnOrder))
	for _, id := range l.ColumnOrder {
		c, ok := byID[id]
		if !ok || seen[id] || !visible[id] {
			continue
		}
		seen[id] = true
		out = append(out, c)
	}

	if len(out) == 0 {
		return DefaultOrder(cols)
	}
	return out
}

// ToggleVisibility flips one column's visibility, refusing to hide the last
// visible column.
func ToggleVisibility(l Layout, col gormModels.TableColumn) (Layout, error) {
	visible := make([]string, 0, len(l.VisibleColumns))
	isVisible := false
	for _, id := range l.VisibleColumns {
		if id == col.ID {
			isVisible = true
			continue
		}
		visible = append(visible, id)
	}

	if !isVisible {
		visible = append(visible, col.ID)
		return Layout{ColumnOrder: l.ColumnOrder, VisibleColumns: visible}, nil
	}

	visibleCount := len(l.VisibleColumns)
	if !CanHide(col, true, visibleCount) || visibleCount <= 1 {
		return l, constants.NewProtectedError(constants.MsgLastVisibleColumn)
	}
	return Layout{ColumnOrder: l.ColumnOrder, VisibleColumns: visible}, nil
}
