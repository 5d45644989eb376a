package mutations

import (
	"context"
	"fmt"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/grid"
	"route-vending/tablegrid/internal/models/dtos"
)

// CreateRow targets "new" since the id is assigned by the store.
func (c *Coordinator) CreateRow(s *auth.EditSession, in dtos.CreateRowRequest) *Ticket {
	return c.Submit(s, Intent{
		Op:       OpCreateRow,
		TargetID: "new",
		Run: func(ctx context.Context) (any, error) {
			return c.store.CreateRow(ctx, in)
		},
	})
}

func (c *Coordinator) UpdateRow(s *auth.EditSession, id string, in dtos.RowInput) *Ticket {
	return c.Submit(s, Intent{
		Op:       OpUpdateRow,
		TargetID: id,
		Run: func(ctx context.Context) (any, error) {
			return c.store.UpdateRow(ctx, id, in)
		},
	})
}

func (c *Coordinator) DeleteRow(s *auth.EditSession, id string, confirmed bool) *Ticket {
	return c.Submit(s, Intent{
		Op:        OpDeleteRow,
		TargetID:  id,
		Confirmed: confirmed,
		Run: func(ctx context.Context) (any, error) {
			return nil, c.store.DeleteRow(ctx, id)
		},
	})
}

func (c *Coordinator) ReorderRows(s *auth.EditSession, ids []string) *Ticket {
	return c.reorderRows(s, OpReorderRows, ids)
}

// ApplySort persists a sorted order as the canonical row order.
func (c *Coordinator) ApplySort(s *auth.EditSession, ids []string) *Ticket {
	return c.reorderRows(s, OpApplySort, ids)
}

func (c *Coordinator) reorderRows(s *auth.EditSession, op Operation, ids []string) *Ticket {
	ids = append([]string(nil), ids...)
	return c.Submit(s, Intent{
		Op:       op,
		TargetID: TargetRows,
		Run: func(ctx context.Context) (any, error) {
			return c.store.ReorderRows(ctx, ids)
		},
	})
}

func (c *Coordinator) AddImage(s *auth.EditSession, rowID string, in dtos.ImageRequest) *Ticket {
	return c.Submit(s, Intent{
		Op:       OpAddImage,
		TargetID: rowID,
		Run: func(ctx context.Context) (any, error) {
			return c.store.AddImage(ctx, rowID, in)
		},
	})
}

func (c *Coordinator) UpdateImage(s *auth.EditSession, rowID string, index int, in dtos.ImageUpdateRequest) *Ticket {
	return c.Submit(s, Intent{
		Op:       OpUpdateImage,
		TargetID: imageTarget(rowID, &index),
		Run: func(ctx context.Context) (any, error) {
			return c.store.UpdateImage(ctx, rowID, index, in)
		},
	})
}

// DeleteImage removes the image at index, or clears every image when index
// is nil.
func (c *Coordinator) DeleteImage(s *auth.EditSession, rowID string, index *int, confirmed bool) *Ticket {
	return c.Submit(s, Intent{
		Op:        OpDeleteImage,
		TargetID:  imageTarget(rowID, index),
		Confirmed: confirmed,
		Run: func(ctx context.Context) (any, error) {
			return c.store.DeleteImage(ctx, rowID, index)
		},
	})
}

func imageTarget(rowID string, index *int) string {
	if index == nil {
		return rowID + "/images"
	}
	return fmt.Sprintf("%s/images/%d", rowID, *index)
}

func (c *Coordinator) CreateColumn(s *auth.EditSession, in dtos.CreateColumnRequest) *Ticket {
	return c.Submit(s, Intent{
		Op:       OpCreateColumn,
		TargetID: "new",
		Run: func(ctx context.Context) (any, error) {
			return c.store.CreateColumn(ctx, in)
		},
	})
}

func (c *Coordinator) UpdateColumn(s *auth.EditSession, id string, in dtos.UpdateColumnRequest) *Ticket {
	return c.Submit(s, Intent{
		Op:       OpUpdateColumn,
		TargetID: id,
		Run: func(ctx context.Context) (any, error) {
			return c.store.UpdateColumn(ctx, id, in)
		},
	})
}

// DeleteColumn rejects core columns before anything is sent to the store.
func (c *Coordinator) DeleteColumn(s *auth.EditSession, id string, confirmed bool) *Ticket {
	return c.Submit(s, Intent{
		Op:        OpDeleteColumn,
		TargetID:  id,
		Confirmed: confirmed,
		Precheck: func(ctx context.Context) error {
			col, err := c.store.GetColumn(ctx, id)
			if err != nil {
				return err
			}
			if col == nil {
				return fmt.Errorf("column %s: %w", id, constants.ErrNotFound)
			}
			if grid.IsCoreColumn(*col) {
				return constants.NewProtectedError(constants.MsgCoreColumnDelete)
			}
			return nil
		},
		Run: func(ctx context.Context) (any, error) {
			return nil, c.store.DeleteColumn(ctx, id)
		},
	})
}

func (c *Coordinator) ReorderColumns(s *auth.EditSession, ids []string) *Ticket {
	ids = append([]string(nil), ids...)
	return c.Submit(s, Intent{
		Op:       OpReorderColumns,
		TargetID: TargetColumns,
		Run: func(ctx context.Context) (any, error) {
			return c.store.ReorderColumns(ctx, ids)
		},
	})
}
