package grid

import (
	"fmt"

	"route-vending/tablegrid/internal/constants"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

func depotRow(lat, lon string) gormModels.TableRow {
	return gormModels.TableRow{ID: "depot", Location: constants.DepotLocation, Latitude: lat, Longitude: lon}
}

func stop(id, lat, lon string, order int) gormModels.TableRow {
	return gormModels.TableRow{ID: id, Code: id, Location: "Site " + id, Latitude: lat, Longitude: lon, SortOrder: order}
}

func numberedRows(n int) []gormModels.TableRow {
	rows := make([]gormModels.TableRow, n)
	for i := range rows {
		rows[i] = gormModels.TableRow{ID: fmt.Sprintf("r%02d", i), No: i + 1, SortOrder: i}
	}
	return rows
}

func col(id, dataKey, typ string, order int) gormModels.TableColumn {
	return gormModels.TableColumn{ID: id, Name: dataKey, DataKey: dataKey, Type: typ, SortOrder: order}
}

func ids(rows []AnnotatedRow) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].ID
	}
	return out
}
