package dtos

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models"
)

// RowInput is a partial row. Nil fields are left untouched on update and
// take their zero value on create.
type RowInput struct {
	No          *int              `json:"no,omitempty" validate:"omitempty,min=0"`
	Route       *string           `json:"route,omitempty"`
	Code        *string           `json:"code,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Delivery    *string           `json:"delivery,omitempty"`
	Trip        *string           `json:"trip,omitempty"`
	Alt1        *string           `json:"alt1,omitempty"`
	Alt2        *string           `json:"alt2,omitempty"`
	Info        *models.Info      `json:"info,omitempty"`
	TngSite     *string           `json:"tngSite,omitempty"`
	TngRoute    *string           `json:"tngRoute,omitempty"`
	Destination *string           `json:"destination,omitempty"`
	TollPrice   *string           `json:"tollPrice,omitempty"`
	Latitude    *string           `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *string           `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Extra       map[string]string `json:"extraFields,omitempty" validate:"omitempty,dive,keys,datakey,endkeys"`
}

// CreateRowRequest is the body of POST /rows. Position is 1-based; when
// omitted the row is appended.
type CreateRowRequest struct {
	RowInput
	Position *int `json:"position,omitempty" validate:"omitempty,min=1"`
}

// rowInputKeys are the JSON keys decoded into RowInput's fixed fields.
var rowInputKeys = map[string]bool{
	"no": true, "route": true, "code": true, "location": true, "delivery": true,
	"trip": true, "alt1": true, "alt2": true, "info": true, "tngSite": true,
	"tngRoute": true, "destination": true, "tollPrice": true, "latitude": true,
	"longitude": true, "extraFields": true,
}

// readOnlyRowKeys cannot be patched through the row endpoint.
var readOnlyRowKeys = map[string]bool{"id": true, "images": true, "sortOrder": true}

// ParseRowPatch decodes a partial update map. Keys outside the fixed row
// shape are collected into Extra as strings. A "no" sent as a numeric string
// is accepted.
func ParseRowPatch(raw map[string]json.RawMessage) (RowInput, error) {
	fixed := make(map[string]json.RawMessage, len(raw))
	extra := map[string]string{}

	for key, value := range raw {
		switch {
		case readOnlyRowKeys[key]:
			return RowInput{}, constants.NewFieldError(key, "cannot be updated")
		case key == "no":
			n, err := parseNo(value)
			if err != nil {
				return RowInput{}, err
			}
			fixed[key] = json.RawMessage(strconv.Itoa(n))
		case rowInputKeys[key]:
			fixed[key] = value
		default:
			s, err := rawString(value)
			if err != nil {
				return RowInput{}, constants.NewFieldError(key, "must be a string")
			}
			extra[key] = s
		}
	}

	body, err := json.Marshal(fixed)
	if err != nil {
		return RowInput{}, fmt.Errorf("%w: %v", constants.ErrValidation, err)
	}
	var in RowInput
	if err := json.Unmarshal(body, &in); err != nil {
		return RowInput{}, fmt.Errorf("%w: %v", constants.ErrValidation, err)
	}

	if len(extra) > 0 {
		if in.Extra == nil {
			in.Extra = map[string]string{}
		}
		for k, v := range extra {
			in.Extra[k] = v
		}
	}
	return in, Validate(in)
}

func parseNo(value json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(value, &n); err == nil {
		return n, nil
	}
	s, err := rawString(value)
	if err == nil {
		if n, err = strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, nil
		}
	}
	return 0, constants.NewFieldError("no", "must be an integer")
}

func rawString(value json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("not a string")
}

type ReorderRowsRequest struct {
	RowIDs []string `json:"rowIds" validate:"required,min=1,dive,required"`
}

type ImageRequest struct {
	ImageURL  string `json:"imageUrl" validate:"required,url"`
	Caption   string `json:"caption"`
	Type      string `json:"type,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty" validate:"omitempty,url"`
}

type ImageUpdateRequest struct {
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Caption  *string `json:"caption,omitempty"`
}

type CreateColumnRequest struct {
	Name       string   `json:"name"`
	DataKey    string   `json:"dataKey" validate:"omitempty,datakey"`
	Type       string   `json:"type" validate:"omitempty,oneof=text number currency images select"`
	IsEditable *bool    `json:"isEditable,omitempty"`
	Options    []string `json:"options,omitempty"`
	Position   *int     `json:"position,omitempty" validate:"omitempty,min=1"`
}

type UpdateColumnRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Type       *string  `json:"type,omitempty" validate:"omitempty,oneof=text number currency images select"`
	IsEditable *bool    `json:"isEditable,omitempty"`
	Options    []string `json:"options,omitempty"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"columnIds" validate:"required,min=1,dive,required"`
}

type LayoutRequest struct {
	UserID           string   `json:"userId" validate:"required"`
	ColumnOrder      []string `json:"columnOrder" validate:"required"`
	ColumnVisibility []string `json:"columnVisibility" validate:"required,min=1"`
	CreatorName      string   `json:"creatorName,omitempty"`
	CreatorURL       string   `json:"creatorUrl,omitempty" validate:"omitempty,url"`
}

type ToggleColumnRequest struct {
	UserID   string `json:"userId" validate:"required"`
	ColumnID string `json:"columnId" validate:"required"`
}

type SessionRequest struct {
	Secret string `json:"secret" validate:"required"`
	UserID string `json:"userId,omitempty"`
}

type SortRequest struct {
	UserID string `json:"userId" validate:"required"`
	Column string `json:"column" validate:"required"`
}

type MoveRequest struct {
	UserID string `json:"userId" validate:"required"`
	From   *int   `json:"from" validate:"required,min=0"`
	To     *int   `json:"to" validate:"required,min=0"`
}
