package grid

import (
	"testing"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/geo"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioRows() []gormModels.TableRow {
	depot := depotRow("1", "1")
	depot.Route = "R1"
	r1 := stop("R1", "1", "2", 1)
	r1.Route = "R1"
	r2 := stop("R2", "2", "2", 2)
	r2.Route = "R2"
	return []gormModels.TableRow{depot, r1, r2}
}

func TestComposeUnfilteredUsesDirectDistance(t *testing.T) {
	view := Compose(ViewInput{Rows: scenarioRows(), PageSize: 16, Page: 1})

	require.Len(t, view.Rows, 3)
	assert.Equal(t, "direct", view.DistanceMode)
	assert.Equal(t, "0.00", view.Rows[0].Kilometer)
	assert.Equal(t, FormatKilometer(geo.Distance(1, 1, 1, 2)), view.Rows[1].Kilometer)
	assert.Equal(t, FormatKilometer(geo.Distance(1, 1, 2, 2)), view.Rows[2].Kilometer)
}

func TestComposeFilteredPinsDepotAndAccumulates(t *testing.T) {
	view := Compose(ViewInput{
		Rows:     scenarioRows(),
		Filters:  Filters{Search: "R1"},
		PageSize: 16,
		Page:     1,
	})

	assert.Equal(t, "cumulative", view.DistanceMode)
	assert.Equal(t, []string{"depot", "R1"}, ids(view.Rows))
	assert.Equal(t, "0.00", view.Rows[0].Kilometer)
	assert.Equal(t, FormatKilometer(geo.Distance(1, 1, 1, 2)), view.Rows[1].Kilometer)
	assert.Equal(t, constants.DepotSequence, view.Rows[0].DisplayNo)
	assert.Equal(t, "1", view.Rows[1].DisplayNo)
}

func TestDepotOnlyPinnedWhenItMatchesSearch(t *testing.T) {
	rows := scenarioRows()
	rows[0].Route = ""

	got := FilterRows(rows, Filters{Search: "R2"})
	require.Len(t, got, 1)
	assert.Equal(t, "R2", got[0].ID)
}

func TestDepotIgnoresRouteAndTripFilters(t *testing.T) {
	rows := scenarioRows()
	rows[0].Trip = "Daily"

	got := FilterRows(rows, Filters{Routes: []string{"R2"}, Trips: []string{"Daily"}})
	require.Len(t, got, 2)
	assert.Equal(t, "depot", got[0].ID)
	assert.Equal(t, "R2", got[1].ID)
}

func TestCumulativeDistanceMonotonicAndResets(t *testing.T) {
	rows := []gormModels.TableRow{
		depotRow("3.1", "101.6"),
		stop("a", "3.2", "101.7", 1),
		stop("b", "", "", 2),
		stop("c", "3.4", "101.5", 3),
		depotRow("3.1", "101.6"),
		stop("d", "3.15", "101.65", 5),
	}
	rows[4].ID = "depot-again"

	annotated := Annotate(rows, &rows[0], CumulativeMode)

	last := 0.0
	for i, r := range annotated {
		if r.IsDepot() {
			assert.Equal(t, "0.00", r.Kilometer)
			last = 0
			continue
		}
		if r.KilometerValue == nil {
			assert.Equal(t, constants.UnknownDistance, r.Kilometer, "row %d", i)
			assert.Zero(t, r.SegmentDistance)
			continue
		}
		assert.GreaterOrEqual(t, *r.KilometerValue, last, "row %d", i)
		last = *r.KilometerValue
	}

	// the stop after the second depot restarts from the depot
	assert.InDelta(t, geo.Distance(3.1, 101.6, 3.15, 101.65), *annotated[5].KilometerValue, 1e-9)
	// c chains from a since b has no coordinates
	wantC := geo.Distance(3.1, 101.6, 3.2, 101.7) + geo.Distance(3.2, 101.7, 3.4, 101.5)
	assert.InDelta(t, wantC, *annotated[3].KilometerValue, 1e-9)
}

func TestAnnotateWithoutDepotIsUnknown(t *testing.T) {
	rows := []gormModels.TableRow{stop("a", "1", "1", 0)}
	annotated := Annotate(rows, nil, DirectMode)
	assert.Equal(t, constants.UnknownDistance, annotated[0].Kilometer)
	assert.Nil(t, annotated[0].KilometerValue)
}

func TestFilterComposition(t *testing.T) {
	rows := []gormModels.TableRow{
		{ID: "1", Route: "A", Trip: "X"},
		{ID: "2", Route: "A", Trip: "Y"},
		{ID: "3", Route: "B", Trip: "Y"},
		{ID: "4", Route: "A", Trip: ""},
	}

	got := FilterRows(rows, Filters{Routes: []string{"A"}, Trips: []string{"X"}})
	var gotIDs []string
	for _, r := range got {
		assert.Equal(t, "A", r.Route)
		assert.NotEqual(t, "X", r.Trip)
		gotIDs = append(gotIDs, r.ID)
	}
	assert.Equal(t, []string{"2", "4"}, gotIDs)
}

func TestSearchIsCaseInsensitiveAndCoversExtras(t *testing.T) {
	rows := []gormModels.TableRow{
		{ID: "1", Location: "Kuala Lumpur"},
		{ID: "2", ExtraFields: gormModels.ExtraFields{"remarks": "Loading BAY"}},
		{ID: "3", Images: gormModels.ImageList{{URL: "https://x.test/a.png", Caption: "Front gate"}}},
	}

	assert.Len(t, FilterRows(rows, Filters{Search: "kuala"}), 1)
	assert.Len(t, FilterRows(rows, Filters{Search: "bay"}), 1)
	assert.Len(t, FilterRows(rows, Filters{Search: "GATE"}), 1)
}

func TestComposePagination(t *testing.T) {
	view := Compose(ViewInput{Rows: numberedRows(17), PageSize: 16, Page: 2})

	assert.Equal(t, 2, view.Page.TotalPages)
	assert.Equal(t, 2, view.Page.Number)
	assert.Len(t, view.Rows, 1)
	assert.Equal(t, "17", view.Rows[0].DisplayNo)
	assert.True(t, view.Page.ShowFirst)
	assert.False(t, view.Page.ShowLast)
}

func TestComposeFooterUsesFilteredRows(t *testing.T) {
	rows := []gormModels.TableRow{
		{ID: "1", Route: "A", No: 1, TollPrice: "1000.50", SortOrder: 0},
		{ID: "2", Route: "A", No: 2, TollPrice: "2.25", SortOrder: 1},
		{ID: "3", Route: "B", No: 3, TollPrice: "99", SortOrder: 2},
	}
	cols := []gormModels.TableColumn{
		col("c-no", "no", constants.ColumnTypeNumber, 0),
		col("c-toll", "tollPrice", constants.ColumnTypeCurrency, 1),
		col("c-loc", "location", constants.ColumnTypeText, 2),
	}

	view := Compose(ViewInput{Rows: rows, Columns: cols, Filters: Filters{Routes: []string{"A"}}, PageSize: 16, Page: 1})

	assert.Equal(t, "3", view.Totals["no"])
	assert.Equal(t, "RM1,002.75", view.Totals["tollPrice"])
	assert.Equal(t, constants.EmptyTotal, view.Totals["location"])
	assert.Equal(t, 3, view.Stats.TotalRows)
	assert.Equal(t, 2, view.Stats.FilteredRows)
	assert.Equal(t, []string{"A", "B"}, view.RouteOptions)
}

func TestComposeAppliesSortAndReannotates(t *testing.T) {
	rows := []gormModels.TableRow{
		depotRow("1", "1"),
		stop("far", "1", "3", 1),
		stop("near", "1", "2", 2),
	}

	view := Compose(ViewInput{
		Rows:     rows,
		Sort:     &SortState{Column: "kilometer", Direction: SortAsc},
		PageSize: 16,
		Page:     1,
	})

	assert.Equal(t, []string{"depot", "near", "far"}, ids(view.Rows))
	assert.Equal(t, FormatKilometer(geo.Distance(1, 1, 1, 3)), view.Rows[2].Kilometer)
	assert.Equal(t, "2", view.Rows[2].DisplayNo)
}

func TestFilteredRowsKeepsPersistedSort(t *testing.T) {
	rows := []gormModels.TableRow{depotRow("1", "1")}
	for i, lat := range []string{"1.1", "1.2", "1.3"} {
		r := stop(string(rune('a'+i)), lat, "1", i+1)
		r.Route = "R"
		rows = append(rows, r)
	}
	rows[0].Route = "R"
	filters := Filters{Routes: []string{"R"}}
	desc := &SortState{Column: "kilometer", Direction: SortDesc}

	sorted, _ := FilteredRows(rows, filters, desc)
	require.Equal(t, []string{"depot", "c", "b", "a"}, ids(sorted))

	// write the sorted sequence back as the canonical order
	for i, r := range sorted {
		for j := range rows {
			if rows[j].ID == r.ID {
				rows[j].SortOrder = i
			}
		}
	}

	desc.Persisted = true
	shown, _ := FilteredRows(rows, filters, desc)
	assert.Equal(t, []string{"depot", "c", "b", "a"}, ids(shown))

	// a local sort is still applied on every render
	local, _ := FilteredRows(rows, filters, &SortState{Column: "kilometer", Direction: SortDesc})
	assert.Equal(t, []string{"depot", "a", "b", "c"}, ids(local))
}
