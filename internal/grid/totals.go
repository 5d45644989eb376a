package grid

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"route-vending/tablegrid/internal/constants"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Totals computes the footer for the given filtered rows, keyed by data key.
func Totals(rows []AnnotatedRow, columns []gormModels.TableColumn) map[string]string {
	totals := make(map[string]string, len(columns))
	for _, col := range columns {
		switch {
		case col.DataKey == "no":
			sum := 0
			for i := range rows {
				sum += rows[i].No
			}
			totals[col.DataKey] = strconv.Itoa(sum)

		case col.Type == constants.ColumnTypeCurrency &&
			slices.Contains(constants.AggregableCurrencyKeys, col.DataKey):
			sum := 0.0
			for i := range rows {
				v, _ := rows[i].Field(col.DataKey)
				sum += ParseAmount(v)
			}
			totals[col.DataKey] = FormatCurrency(sum)

		default:
			totals[col.DataKey] = constants.EmptyTotal
		}
	}
	return totals
}

// ParseAmount reads a numeric cell, treating anything unparseable as 0.
func ParseAmount(v string) float64 {
	v = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "RM"))
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FormatCurrency renders an amount in ringgit with thousands grouping.
func FormatCurrency(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount < 0 {
		return "-RM" + p.Sprintf("%.2f", -amount)
	}
	return "RM" + p.Sprintf("%.2f", amount)
}
