package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/db/repositories"
	"route-vending/tablegrid/internal/grid"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/models/dtos"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

// TableService is the row store: rows, columns and row images.
type TableService struct {
	rows    *repositories.RowRepository
	columns *repositories.ColumnRepository
}

func NewTableService(rows *repositories.RowRepository, columns *repositories.ColumnRepository) *TableService {
	return &TableService{
		rows:    rows,
		columns: columns,
	}
}

func (s *TableService) ListRows(ctx context.Context) ([]gormModels.TableRow, error) {
	return s.rows.List(ctx)
}

func (s *TableService) GetRow(ctx context.Context, id string) (*gormModels.TableRow, error) {
	row, err := s.rows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("row %s: %w", id, constants.ErrNotFound)
	}
	return row, nil
}

// CreateRow appends a row, or inserts it at the requested 1-based position.
func (s *TableService) CreateRow(ctx context.Context, in dtos.CreateRowRequest) (*gormModels.TableRow, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}

	row := &gormModels.TableRow{
		Images:      gormModels.ImageList{},
		ExtraFields: gormModels.ExtraFields{},
	}
	if err := s.applyRowInput(ctx, row, in.RowInput); err != nil {
		return nil, err
	}

	if err := s.rows.Create(ctx, row, in.Position); err != nil {
		return nil, err
	}
	logging.Info("Row created", "row_id", row.ID, "sort_order", row.SortOrder)
	return row, nil
}

// UpdateRow applies a partial update. Fields left nil keep their value.
func (s *TableService) UpdateRow(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}

	row, err := s.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if row.IsDepot() && in.No != nil && *in.No != row.No {
		return nil, constants.NewFieldError("no", constants.MsgDepotNoNotEditable)
	}

	if err := s.applyRowInput(ctx, row, in); err != nil {
		return nil, err
	}
	if err := s.rows.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *TableService) applyRowInput(ctx context.Context, row *gormModels.TableRow, in dtos.RowInput) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}

	if in.No != nil {
		row.No = *in.No
	}
	set(&row.Route, in.Route)
	set(&row.Code, in.Code)
	set(&row.Location, in.Location)
	set(&row.Delivery, in.Delivery)
	set(&row.Trip, in.Trip)
	set(&row.Alt1, in.Alt1)
	set(&row.Alt2, in.Alt2)
	set(&row.TngSite, in.TngSite)
	set(&row.TngRoute, in.TngRoute)
	set(&row.Destination, in.Destination)
	set(&row.TollPrice, in.TollPrice)
	set(&row.Latitude, in.Latitude)
	set(&row.Longitude, in.Longitude)
	if in.Info != nil {
		row.Info = *in.Info
	}

	if len(in.Extra) == 0 {
		return nil
	}

	keys, err := s.columns.DataKeys(ctx)
	if err != nil {
		return err
	}
	dynamic := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !gormModels.FixedRowFields[k] {
			dynamic[k] = true
		}
	}

	if row.ExtraFields == nil {
		row.ExtraFields = gormModels.ExtraFields{}
	}
	for key, value := range in.Extra {
		if !dynamic[key] {
			return constants.NewFieldError(key, "unknown field")
		}
		row.ExtraFields[key] = value
	}
	return nil
}

func (s *TableService) DeleteRow(ctx context.Context, id string) error {
	deleted, err := s.rows.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("row %s: %w", id, constants.ErrNotFound)
	}
	logging.Info("Row deleted", "row_id", id)
	return nil
}

// ReorderRows persists ids as the canonical order. Rows not named keep
// their relative order after the named ones.
func (s *TableService) ReorderRows(ctx context.Context, ids []string) ([]gormModels.TableRow, error) {
	if len(ids) == 0 {
		return nil, constants.NewFieldError("rowIds", "must not be empty")
	}
	return s.rows.Reorder(ctx, ids)
}

func (s *TableService) AddImage(ctx context.Context, rowID string, in dtos.ImageRequest) (*gormModels.TableRow, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	row, err := s.GetRow(ctx, rowID)
	if err != nil {
		return nil, err
	}

	row.Images = append(row.Images, gormModels.Image{
		URL:       strings.TrimSpace(in.ImageURL),
		Caption:   in.Caption,
		Type:      in.Type,
		Thumbnail: in.Thumbnail,
	})
	if err := s.rows.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *TableService) UpdateImage(ctx context.Context, rowID string, index int, in dtos.ImageUpdateRequest) (*gormModels.TableRow, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	row, err := s.GetRow(ctx, rowID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(row.Images) {
		return nil, constants.NewFieldError("index", constants.MsgInvalidImageIndex)
	}

	if in.ImageURL != nil {
		row.Images[index].URL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Caption != nil {
		row.Images[index].Caption = *in.Caption
	}
	if err := s.rows.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteImage removes the image at index, or every image when index is nil.
func (s *TableService) DeleteImage(ctx context.Context, rowID string, index *int) (*gormModels.TableRow, error) {
	row, err := s.GetRow(ctx, rowID)
	if err != nil {
		return nil, err
	}

	if index == nil {
		row.Images = gormModels.ImageList{}
	} else {
		i := *index
		if i < 0 || i >= len(row.Images) {
			return nil, constants.NewFieldError("index", constants.MsgInvalidImageIndex)
		}
		row.Images = append(row.Images[:i:i], row.Images[i+1:]...)
	}

	if err := s.rows.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *TableService) ListColumns(ctx context.Context) ([]gormModels.TableColumn, error) {
	return s.columns.List(ctx)
}

func (s *TableService) GetColumn(ctx context.Context, id string) (*gormModels.TableColumn, error) {
	col, err := s.columns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, fmt.Errorf("column %s: %w", id, constants.ErrNotFound)
	}
	return col, nil
}

// CreateColumn appends a column. A missing name or data key gets the default
// with a numeric suffix until unique; an explicit duplicate key is a conflict.
func (s *TableService) CreateColumn(ctx context.Context, in dtos.CreateColumnRequest) (*gormModels.TableColumn, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}

	keys, err := s.columns.DataKeys(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(keys))
	for _, k := range keys {
		taken[k] = true
	}

	dataKey := strings.TrimSpace(in.DataKey)
	name := strings.TrimSpace(in.Name)
	switch {
	case dataKey == "":
		var suffix string
		dataKey, suffix = uniqueKey(constants.DefaultColumnDataKey, taken)
		if name == "" {
			name = constants.DefaultColumnName + suffix
		}
	case taken[dataKey] || gormModels.FixedRowFields[dataKey]:
		return nil, fmt.Errorf("%w: %s", constants.ErrConflict, constants.MsgDuplicateDataKey)
	}
	if name == "" {
		name = constants.DefaultColumnName
	}

	colType := in.Type
	if colType == "" {
		colType = constants.ColumnTypeText
	}
	editable := true
	if in.IsEditable != nil {
		editable = *in.IsEditable
	}

	col := &gormModels.TableColumn{
		Name:       name,
		DataKey:    dataKey,
		Type:       colType,
		IsEditable: strconv.FormatBool(editable),
		Options:    gormModels.StringList(in.Options),
	}
	if err := s.columns.Create(ctx, col, in.Position); err != nil {
		return nil, err
	}
	logging.Info("Column created", "column_id", col.ID, "data_key", col.DataKey)
	return col, nil
}

// uniqueKey returns base, or base followed by the smallest free number.
func uniqueKey(base string, taken map[string]bool) (string, string) {
	if !taken[base] {
		return base, ""
	}
	for i := 2; ; i++ {
		suffix := strconv.Itoa(i)
		if !taken[base+suffix] {
			return base + suffix, " " + suffix
		}
	}
}

func (s *TableService) UpdateColumn(ctx context.Context, id string, in dtos.UpdateColumnRequest) (*gormModels.TableColumn, error) {
	if err := dtos.Validate(in); err != nil {
		return nil, err
	}
	col, err := s.GetColumn(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		col.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		col.Type = *in.Type
	}
	if in.IsEditable != nil {
		col.IsEditable = strconv.FormatBool(*in.IsEditable)
	}
	if in.Options != nil {
		col.Options = gormModels.StringList(in.Options)
	}

	if err := s.columns.Update(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

// DeleteColumn refuses core columns regardless of the caller.
func (s *TableService) DeleteColumn(ctx context.Context, id string) error {
	col, err := s.GetColumn(ctx, id)
	if err != nil {
		return err
	}
	if grid.IsCoreColumn(*col) {
		return constants.NewProtectedError(constants.MsgCoreColumnDelete)
	}

	deleted, err := s.columns.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("column %s: %w", id, constants.ErrNotFound)
	}
	logging.Info("Column deleted", "column_id", id, "data_key", col.DataKey)
	return nil
}

func (s *TableService) ReorderColumns(ctx context.Context, ids []string) ([]gormModels.TableColumn, error) {
	if len(ids) == 0 {
		return nil, constants.NewFieldError("columnIds", "must not be empty")
	}
	return s.columns.Reorder(ctx, ids)
}
