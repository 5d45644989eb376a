package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Image is one entry of a row's gallery.
type Image struct {
	URL       string `json:"url" validate:"required,url"`
	Caption   string `json:"caption"`
	Type      string `json:"type,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ImageList is stored as a JSON array.
type ImageList []Image

// Scan implements the sql.Scanner interface for ImageList
func (l *ImageList) Scan(value interface{}) error {
	*l = ImageList{}
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface for ImageList
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSON(l)
}

// StringList is stored as a JSON array of strings.
type StringList []string

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	return scanJSON(value, l)
}

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSON(l)
}

// ExtraFields holds values for columns added at runtime.
type ExtraFields map[string]string

// Scan implements the sql.Scanner interface for ExtraFields
func (f *ExtraFields) Scan(value interface{}) error {
	*f = ExtraFields{}
	return scanJSON(value, f)
}

// Value implements the driver.Valuer interface for ExtraFields
func (f ExtraFields) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	return valueJSON(f)
}

func scanJSON(value interface{}, dest interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan type %T into %T", value, dest)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func valueJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
