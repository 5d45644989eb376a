package mutations

import (
	"context"

	"route-vending/tablegrid/internal/models/dtos"
	gormModels "route-vending/tablegrid/internal/models/gorm"
)

// Operation names one kind of user intent.
type Operation string

const (
	OpCreateRow      Operation = "create_row"
	OpUpdateRow      Operation = "update_row"
	OpDeleteRow      Operation = "delete_row"
	OpReorderRows    Operation = "reorder_rows"
	OpAddImage       Operation = "add_image"
	OpUpdateImage    Operation = "update_image"
	OpDeleteImage    Operation = "delete_image"
	OpCreateColumn   Operation = "create_column"
	OpUpdateColumn   Operation = "update_column"
	OpDeleteColumn   Operation = "delete_column"
	OpReorderColumns Operation = "reorder_columns"
	OpApplySort      Operation = "apply_sort"
)

// Collection targets for operations that act on a whole collection.
const (
	TargetRows    = "rows"
	TargetColumns = "columns"
)

var actionNames = map[Operation]string{
	OpCreateRow:      "create row",
	OpUpdateRow:      "update row",
	OpDeleteRow:      "delete row",
	OpReorderRows:    "reorder rows",
	OpAddImage:       "add image",
	OpUpdateImage:    "update image",
	OpDeleteImage:    "delete image",
	OpCreateColumn:   "create column",
	OpUpdateColumn:   "update column",
	OpDeleteColumn:   "delete column",
	OpReorderColumns: "reorder columns",
	OpApplySort:      "apply sort",
}

// Action is the human readable name used in notifications.
func (o Operation) Action() string {
	if name, ok := actionNames[o]; ok {
		return name
	}
	return string(o)
}

// Destructive operations need explicit confirmation.
func (o Operation) Destructive() bool {
	switch o {
	case OpDeleteRow, OpDeleteColumn, OpDeleteImage:
		return true
	}
	return false
}

// Store is the row store the coordinator dispatches to.
type Store interface {
	CreateRow(ctx context.Context, in dtos.CreateRowRequest) (*gormModels.TableRow, error)
	UpdateRow(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error)
	DeleteRow(ctx context.Context, id string) error
	ReorderRows(ctx context.Context, ids []string) ([]gormModels.TableRow, error)

	AddImage(ctx context.Context, rowID string, in dtos.ImageRequest) (*gormModels.TableRow, error)
	UpdateImage(ctx context.Context, rowID string, index int, in dtos.ImageUpdateRequest) (*gormModels.TableRow, error)
	DeleteImage(ctx context.Context, rowID string, index *int) (*gormModels.TableRow, error)

	GetColumn(ctx context.Context, id string) (*gormModels.TableColumn, error)
	CreateColumn(ctx context.Context, in dtos.CreateColumnRequest) (*gormModels.TableColumn, error)
	UpdateColumn(ctx context.Context, id string, in dtos.UpdateColumnRequest) (*gormModels.TableColumn, error)
	DeleteColumn(ctx context.Context, id string) error
	ReorderColumns(ctx context.Context, ids []string) ([]gormModels.TableColumn, error)
}

// Intent is one mutation request. Precheck runs before dispatch and its
// rejection never reaches Run.
type Intent struct {
	Op        Operation
	TargetID  string
	Confirmed bool
	Precheck  func(ctx context.Context) error
	Run       func(ctx context.Context) (any, error)
}
