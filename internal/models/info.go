package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Legacy separator tokens used by the packed info column.
const (
	infoDescriptionToken = "|||DESCRIPTION|||"
	infoURLToken         = "|||URL|||"
)

// Info is the structured form of a row's info field.
type Info struct {
	Address     string `json:"address"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"omitempty,url"`
}

// ParseLegacyInfo splits a packed info string. Strings without tokens are
// treated as a plain address.
func ParseLegacyInfo(packed string) Info {
	var info Info

	head, rest, hasDesc := strings.Cut(packed, infoDescriptionToken)
	if hasDesc {
		info.Address = head
		desc, url, hasURL := strings.Cut(rest, infoURLToken)
		info.Description = desc
		if hasURL {
			info.URL = url
		}
		return info
	}

	head, url, hasURL := strings.Cut(packed, infoURLToken)
	info.Address = head
	if hasURL {
		info.URL = url
	}
	return info
}

// Legacy packs the record back into the single-column storage format.
func (i Info) Legacy() string {
	if i.Description == "" && i.URL == "" {
		return i.Address
	}

	var b strings.Builder
	b.WriteString(i.Address)
	b.WriteString(infoDescriptionToken)
	b.WriteString(i.Description)
	if i.URL != "" {
		b.WriteString(infoURLToken)
		b.WriteString(i.URL)
	}
	return b.String()
}

// IsZero reports whether all parts are empty.
func (i Info) IsZero() bool {
	return i.Address == "" && i.Description == "" && i.URL == ""
}

// Scan implements the sql.Scanner interface reading the legacy text column
func (i *Info) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*i = Info{}
	case string:
		*i = ParseLegacyInfo(v)
	case []byte:
		*i = ParseLegacyInfo(string(v))
	default:
		return fmt.Errorf("Info: cannot scan type %T", value)
	}
	return nil
}

// Value implements the driver.Valuer interface writing the legacy text column
func (i Info) Value() (driver.Value, error) {
	return i.Legacy(), nil
}

// UnmarshalJSON accepts either the structured object or a legacy packed string.
func (i *Info) UnmarshalJSON(data []byte) error {
	var packed string
	if err := json.Unmarshal(data, &packed); err == nil {
		*i = ParseLegacyInfo(packed)
		return nil
	}

	type plain Info
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("Info: %w", err)
	}
	*i = Info(p)
	return nil
}
