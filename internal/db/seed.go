package db

import (
	"context"
	"fmt"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/models"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"gorm.io/gorm"
)

// DefaultColumns are created on an empty column table.
func DefaultColumns() []gormModels.TableColumn {
	cols := []gormModels.TableColumn{
		{Name: "ID", DataKey: "id", Type: constants.ColumnTypeText, IsEditable: "false"},
		{Name: "No", DataKey: "no", Type: constants.ColumnTypeNumber, IsEditable: "true"},
		{Name: "Route", DataKey: "route", Type: constants.ColumnTypeSelect, IsEditable: "true",
			Options: gormModels.StringList{"SL 1", "SL 2", "SL 3", "KL 3", "KL 4", "KL 6", "KL 7"}},
		{Name: "Code", DataKey: "code", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "Location", DataKey: "location", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "Delivery", DataKey: "delivery", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "Trip", DataKey: "trip", Type: constants.ColumnTypeSelect, IsEditable: "true",
			Options: gormModels.StringList{"Daily", "Weekday", "Alt 1", "Alt 2"}},
		{Name: "A1", DataKey: "alt1", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "A2", DataKey: "alt2", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "Info", DataKey: "info", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "TnG Site", DataKey: "tngSite", Type: constants.ColumnTypeText, IsEditable: "true"},
		{Name: "TnG Route", DataKey: "tngRoute", Type: constants.ColumnTypeCurrency, IsEditable: "true"},
		{Name: "Destination", DataKey: "destination", Type: constants.ColumnTypeCurrency, IsEditable: "true"},
		{Name: "Toll", DataKey: "tollPrice", Type: constants.ColumnTypeCurrency, IsEditable: "true"},
		{Name: "Km", DataKey: "kilometer", Type: constants.ColumnTypeNumber, IsEditable: "false"},
		{Name: "Images", DataKey: "images", Type: constants.ColumnTypeImages, IsEditable: "false"},
	}
	for i := range cols {
		cols[i].SortOrder = i
		if cols[i].Options == nil {
			cols[i].Options = gormModels.StringList{}
		}
	}
	return cols
}

// SampleRows are created on an empty row table. The first is the depot.
func SampleRows() []gormModels.TableRow {
	rows := []gormModels.TableRow{
		{Location: constants.DepotLocation, Route: "", Code: "0", Latitude: "3.0733", Longitude: "101.5185",
			Info: models.Info{Address: "Shah Alam"}},
		{No: 1, Route: "KL 3", Code: "1", Location: "Kuala Lumpur", Delivery: "Same Day", Trip: "Daily",
			Alt1: "Alternative 1", Alt2: "Alternative 2", Info: models.Info{Address: "Sample information for row 1"},
			TngSite: "TnG KL Central", TngRoute: "12.50", TollPrice: "3.20", Latitude: "3.1390", Longitude: "101.6869",
			Images: gormModels.ImageList{
				{URL: "https://images.unsplash.com/photo-1559827260-dc66d52bef19?auto=format&fit=crop&w=800&h=600", Caption: "Modern city skyline"},
				{URL: "https://images.unsplash.com/photo-1573167507387-4d8c0a67ceb2?auto=format&fit=crop&w=800&h=600", Caption: "Urban landscape"},
			}},
		{No: 2, Route: "SL 1", Code: "2", Location: "Selangor", Delivery: "Next Day", Trip: "Weekday",
			Alt1: "Alt Option 1", Alt2: "Alt Option 2", Info: models.Info{Address: "Details for Selangor route"},
			TngSite: "TnG Shah Alam", TngRoute: "8.00", Latitude: "3.0738", Longitude: "101.5183",
			Images: gormModels.ImageList{
				{URL: "https://images.unsplash.com/photo-1560472355-536de3962603?auto=format&fit=crop&w=800&h=600", Caption: "Suburban area"},
			}},
		{No: 3, Route: "SL 2", Code: "3", Location: "Johor Bahru", Delivery: "2-3 Days", Trip: "Alt 1",
			Alt1: "JB Alternative", Alt2: "South Route", Info: models.Info{Address: "Information about Johor Bahru delivery"},
			TngSite: "TnG JB Plaza", TngRoute: "45.00", TollPrice: "28.90", Latitude: "1.4927", Longitude: "103.7414"},
		{No: 4, Route: "KL 4", Code: "4", Location: "Penang", Delivery: "Same Day", Trip: "Alt 2",
			Alt1: "Penang Alt", Alt2: "Georgetown", Info: models.Info{Address: "Penang delivery information"},
			TngSite: "TnG Georgetown", TngRoute: "38.40", TollPrice: "22.10", Latitude: "5.4141", Longitude: "100.3288",
			Images: gormModels.ImageList{
				{URL: "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?auto=format&fit=crop&w=800&h=600", Caption: "Georgetown bridge"},
			}},
		{No: 5, Route: "KL 6", Code: "5", Location: "Kota Kinabalu", Delivery: "3-5 Days", Trip: "Daily",
			Alt1: "KK Option", Alt2: "Sabah Route", Info: models.Info{Address: "Extended delivery to East Malaysia"},
			TngSite: "TnG KK Mall", TngRoute: "0"},
	}
	for i := range rows {
		rows[i].SortOrder = i
		if rows[i].Images == nil {
			rows[i].Images = gormModels.ImageList{}
		}
		rows[i].ExtraFields = gormModels.ExtraFields{}
	}
	return rows
}

// Seed inserts default columns and sample rows into empty tables.
func Seed(ctx context.Context, orm *gorm.DB) error {
	return orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&gormModels.TableColumn{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count columns: %w", err)
		}
		if count == 0 {
			cols := DefaultColumns()
			if err := tx.Create(&cols).Error; err != nil {
				return fmt.Errorf("failed to seed columns: %w", err)
			}
			logging.Info("Seeded default columns", "count", len(cols))
		}

		if err := tx.Model(&gormModels.TableRow{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		if count == 0 {
			rows := SampleRows()
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to seed rows: %w", err)
			}
			logging.Info("Seeded sample rows", "count", len(rows))
		}
		return nil
	})
}
