package grid

import (
	"fmt"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/geo"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

// AnnotatedRow is a row plus the per-render derived values.
type AnnotatedRow struct {
	gormModels.TableRow
	Kilometer       string   `json:"kilometer"`
	KilometerValue  *float64 `json:"kilometerValue,omitempty"`
	SegmentDistance float64  `json:"segmentDistance"`
	DisplayNo       string   `json:"displayNo"`
}

// DistanceMode selects how kilometers are computed.
type DistanceMode int

const (
	// DirectMode measures every row straight from the depot.
	DirectMode DistanceMode = iota
	// CumulativeMode sums hop distances along the displayed sequence.
	CumulativeMode
)

// Annotate computes kilometer, segment distance and display sequence for rows
// in their display order. depot may be nil.
func Annotate(rows []gormModels.TableRow, depot *gormModels.TableRow, mode DistanceMode) []AnnotatedRow {
	out := make([]AnnotatedRow, len(rows))

	var origin geo.Point
	originOK := false
	if depot != nil {
		origin, originOK = geo.ParsePoint(depot.Latitude, depot.Longitude)
	}

	prev := origin
	cumulative := 0.0
	seq := 0

	for i := range rows {
		row := rows[i]
		a := AnnotatedRow{TableRow: row}

		if row.IsDepot() {
			a.DisplayNo = constants.DepotSequence
		} else {
			seq++
			a.DisplayNo = fmt.Sprintf("%d", seq)
		}

		switch {
		case row.IsDepot():
			if mode == CumulativeMode {
				cumulative = 0
				prev = origin
			}
			setKilometer(&a, 0)

		case !originOK:
			setUnknown(&a)

		default:
			p, ok := geo.ParsePoint(row.Latitude, row.Longitude)
			if !ok {
				setUnknown(&a)
				break
			}
			if mode == DirectMode {
				d := geo.Between(origin, p)
				a.SegmentDistance = d
				setKilometer(&a, d)
				break
			}
			seg := geo.Between(prev, p)
			cumulative += seg
			prev = p
			a.SegmentDistance = seg
			setKilometer(&a, cumulative)
		}

		out[i] = a
	}
	return out
}

func setKilometer(a *AnnotatedRow, km float64) {
	v := km
	a.KilometerValue = &v
	a.Kilometer = FormatKilometer(km)
}

func setUnknown(a *AnnotatedRow) {
	a.KilometerValue = nil
	a.SegmentDistance = 0
	a.Kilometer = constants.UnknownDistance
}

// FormatKilometer renders a distance with two decimals.
func FormatKilometer(km float64) string {
	return fmt.Sprintf("%.2f", km)
}
