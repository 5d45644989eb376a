package gorm

import (
	"strconv"
	"time"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// TableRow is one delivery/route record of the grid.
type TableRow struct {
	ID          string       `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	No          int          `gorm:"column:no;not null;default:0" json:"no"`
	Route       string       `gorm:"column:route;not null;default:''" json:"route"`
	Code        string       `gorm:"column:code;not null;default:''" json:"code"`
	Location    string       `gorm:"column:location;not null;default:''" json:"location"`
	Delivery    string       `gorm:"column:delivery;not null;default:''" json:"delivery"`
	Trip        string       `gorm:"column:trip;not null;default:''" json:"trip"`
	Alt1        string       `gorm:"column:alt1;not null;default:''" json:"alt1"`
	Alt2        string       `gorm:"column:alt2;not null;default:''" json:"alt2"`
	Info        models.Info  `gorm:"column:info;type:text;not null;default:''" json:"info"`
	TngSite     string       `gorm:"column:tng_site;not null;default:''" json:"tngSite"`
	TngRoute    string       `gorm:"column:tng_route;not null;default:''" json:"tngRoute"`
	Destination string       `gorm:"column:destination;not null;default:''" json:"destination"`
	TollPrice   string       `gorm:"column:toll_price;not null;default:''" json:"tollPrice"`
	Latitude    string       `gorm:"column:latitude;not null;default:''" json:"latitude"`
	Longitude   string       `gorm:"column:longitude;not null;default:''" json:"longitude"`
	Images      ImageList    `gorm:"column:images;type:jsonb;not null" json:"images"`
	ExtraFields ExtraFields  `gorm:"column:extra_fields;type:jsonb;not null" json:"extraFields"`
	SortOrder   int          `gorm:"column:sort_order;not null;default:0;index" json:"sortOrder"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM
func (TableRow) TableName() string {
	return "table_rows"
}

// BeforeCreate assigns an id when the caller did not supply one
func (r *TableRow) BeforeCreate(tx *gormlib.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Images == nil {
		r.Images = ImageList{}
	}
	if r.ExtraFields == nil {
		r.ExtraFields = ExtraFields{}
	}
	return nil
}

// IsDepot reports whether this row is the fixed route origin.
func (r *TableRow) IsDepot() bool {
	return r.Location == constants.DepotLocation
}

// Field returns the string form of the value a column with dataKey displays.
// ok is false when the key is neither a fixed field nor a stored extra field.
func (r *TableRow) Field(dataKey string) (string, bool) {
	switch dataKey {
	case "id":
		return r.ID, true
	case "no":
		return strconv.Itoa(r.No), true
	case "route":
		return r.Route, true
	case "code":
		return r.Code, true
	case "location":
		return r.Location, true
	case "delivery":
		return r.Delivery, true
	case "trip":
		return r.Trip, true
	case "alt1":
		return r.Alt1, true
	case "alt2":
		return r.Alt2, true
	case "info":
		return r.Info.Legacy(), true
	case "tngSite":
		return r.TngSite, true
	case "tngRoute":
		return r.TngRoute, true
	case "destination":
		return r.Destination, true
	case "tollPrice":
		return r.TollPrice, true
	case "latitude":
		return r.Latitude, true
	case "longitude":
		return r.Longitude, true
	case "sortOrder":
		return strconv.Itoa(r.SortOrder), true
	}
	v, ok := r.ExtraFields[dataKey]
	return v, ok
}

// SearchValues lists the string form of every field value on the row.
func (r *TableRow) SearchValues() []string {
	values := []string{
		r.ID, strconv.Itoa(r.No), r.Route, r.Code, r.Location, r.Delivery, r.Trip,
		r.Alt1, r.Alt2, r.Info.Address, r.Info.Description, r.Info.URL, r.TngSite, r.TngRoute, r.Destination,
		r.TollPrice, r.Latitude, r.Longitude, strconv.Itoa(r.SortOrder),
	}
	for _, img := range r.Images {
		values = append(values, img.Caption)
	}
	for _, v := range r.ExtraFields {
		values = append(values, v)
	}
	return values
}

// FixedRowFields are the data keys backed by a TableRow struct field.
var FixedRowFields = map[string]bool{
	"id": true, "no": true, "route": true, "code": true, "location": true,
	"delivery": true, "trip": true, "alt1": true, "alt2": true, "info": true,
	"tngSite": true, "tngRoute": true, "destination": true, "tollPrice": true,
	"latitude": true, "longitude": true, "images": true, "sortOrder": true,
}
