package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringArray is a JSON-encoded text column.
type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringArray: cannot scan type %T", value)
	}
	if len(raw) == 0 {
		*a = StringArray{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringArray: %w", err)
	}
	*a = out
	return nil
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// LayoutPreference is one user's persisted column customization.
type LayoutPreference struct {
	UserID           string      `db:"user_id"`
	ColumnOrder      StringArray `db:"column_order"`
	ColumnVisibility StringArray `db:"column_visibility"`
	CreatorName      string      `db:"creator_name"`
	CreatorURL       string      `db:"creator_url"`
	UpdatedAt        time.Time   `db:"updated_at"`
}
