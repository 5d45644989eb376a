package grid

import (
	"slices"

	"route-vending/tablegrid/internal/constants"
)

const pageWindow = 5

// Page describes the slice of the filtered rows being rendered.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalRows  int   `json:"totalRows"`
	TotalPages int   `json:"totalPages"`
	Window     []int `json:"window"`
	ShowFirst  bool  `json:"showFirst"`
	ShowLast   bool  `json:"showLast"`
}

// ValidPageSize reports whether size is one of the offered page sizes.
func ValidPageSize(size int) bool {
	return slices.Contains(constants.PageSizes, size)
}

// TotalPages is ceil(totalRows / size).
func TotalPages(totalRows, size int) int {
	if size <= 0 {
		return 0
	}
	return (totalRows + size - 1) / size
}

// PageWindow returns up to five page numbers around current, clamped to
// [1, totalPages].
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	start := max(1, current-2)
	end := min(totalPages, start+pageWindow-1)
	if end-start < pageWindow-1 && totalPages >= pageWindow {
		start = max(1, end-pageWindow+1)
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}

// Paginate clamps number into range and returns the rows on that page.
func Paginate[T any](rows []T, number, size int) ([]T, Page) {
	if !ValidPageSize(size) {
		size = constants.DefaultPageSize
	}
	total := len(rows)
	pages := TotalPages(total, size)

	number = max(1, min(number, max(1, pages)))

	start := min((number-1)*size, total)
	end := min(start+size, total)

	return rows[start:end], Page{
		Number:     number,
		Size:       size,
		TotalRows:  total,
		TotalPages: pages,
		Window:     PageWindow(number, pages),
		ShowFirst:  number > 1,
		ShowLast:   number < pages,
	}
}
