package mutations

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/models/dtos"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	createRowFunc      func(ctx context.Context, in dtos.CreateRowRequest) (*gormModels.TableRow, error)
	updateRowFunc      func(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error)
	deleteRowFunc      func(ctx context.Context, id string) error
	reorderRowsFunc    func(ctx context.Context, ids []string) ([]gormModels.TableRow, error)
	getColumnFunc      func(ctx context.Context, id string) (*gormModels.TableColumn, error)
	deleteColumnFunc   func(ctx context.Context, id string) error
	deleteImageFunc    func(ctx context.Context, rowID string, index *int) (*gormModels.TableRow, error)
	reorderColumnsFunc func(ctx context.Context, ids []string) ([]gormModels.TableColumn, error)
}

func (m *mockStore) CreateRow(ctx context.Context, in dtos.CreateRowRequest) (*gormModels.TableRow, error) {
	return m.createRowFunc(ctx, in)
}

func (m *mockStore) UpdateRow(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error) {
	return m.updateRowFunc(ctx, id, in)
}

func (m *mockStore) DeleteRow(ctx context.Context, id string) error {
	return m.deleteRowFunc(ctx, id)
}

func (m *mockStore) ReorderRows(ctx context.Context, ids []string) ([]gormModels.TableRow, error) {
	return m.reorderRowsFunc(ctx, ids)
}

func (m *mockStore) AddImage(ctx context.Context, rowID string, in dtos.ImageRequest) (*gormModels.TableRow, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) UpdateImage(ctx context.Context, rowID string, index int, in dtos.ImageUpdateRequest) (*gormModels.TableRow, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) DeleteImage(ctx context.Context, rowID string, index *int) (*gormModels.TableRow, error) {
	return m.deleteImageFunc(ctx, rowID, index)
}

func (m *mockStore) GetColumn(ctx context.Context, id string) (*gormModels.TableColumn, error) {
	return m.getColumnFunc(ctx, id)
}

func (m *mockStore) CreateColumn(ctx context.Context, in dtos.CreateColumnRequest) (*gormModels.TableColumn, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) UpdateColumn(ctx context.Context, id string, in dtos.UpdateColumnRequest) (*gormModels.TableColumn, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) DeleteColumn(ctx context.Context, id string) error {
	return m.deleteColumnFunc(ctx, id)
}

func (m *mockStore) ReorderColumns(ctx context.Context, ids []string) ([]gormModels.TableColumn, error) {
	return m.reorderColumnsFunc(ctx, ids)
}

var editor = &auth.EditSession{SessionID: "s-1", UserID: "alice", ExpiresAt: time.Now().Add(time.Hour)}

func newTestCoordinator(store Store) (*Coordinator, *common.NotificationFeed, *int32) {
	var invalidations int32
	feed := common.NewNotificationFeed(10)
	c := NewCoordinator(store, func() { atomic.AddInt32(&invalidations, 1) }, feed, metrics.NewMetricsRegistry(), time.Second)
	return c, feed, &invalidations
}

func TestCoordinator_UpdateRowSuccess(t *testing.T) {
	store := &mockStore{
		updateRowFunc: func(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error) {
			return &gormModels.TableRow{ID: id, Route: *in.Route}, nil
		},
	}
	c, feed, invalidations := newTestCoordinator(store)

	route := "KL 7"
	result, err := c.UpdateRow(editor, "row-1", dtos.RowInput{Route: &route}).Wait(context.Background())
	require.NoError(t, err)

	row := result.(*gormModels.TableRow)
	assert.Equal(t, "KL 7", row.Route)
	assert.Equal(t, int32(1), atomic.LoadInt32(invalidations))
	assert.Empty(t, feed.List(0))
	assert.Empty(t, c.Pending())
}

func TestCoordinator_FailureNotifiesWithoutRetry(t *testing.T) {
	var calls int32
	store := &mockStore{
		updateRowFunc: func(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("connection reset")
		},
	}
	c, feed, invalidations := newTestCoordinator(store)

	_, err := c.UpdateRow(editor, "row-1", dtos.RowInput{}).Wait(context.Background())
	require.Error(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(0), atomic.LoadInt32(invalidations))

	notes := feed.List(0)
	require.Len(t, notes, 1)
	assert.Equal(t, "Failed to update row", notes[0].Message)
	assert.Equal(t, common.NotificationError, notes[0].Level)
}

func TestCoordinator_NotFoundInvalidates(t *testing.T) {
	store := &mockStore{
		deleteRowFunc: func(ctx context.Context, id string) error {
			return constants.ErrNotFound
		},
	}
	c, feed, invalidations := newTestCoordinator(store)

	_, err := c.DeleteRow(editor, "gone", true).Wait(context.Background())
	assert.ErrorIs(t, err, constants.ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(invalidations))
	assert.Equal(t, "Failed to delete row: not found", feed.List(1)[0].Message)
}

func TestCoordinator_PendingIsScopedPerTarget(t *testing.T) {
	release := make(chan struct{})
	store := &mockStore{
		updateRowFunc: func(ctx context.Context, id string, in dtos.RowInput) (*gormModels.TableRow, error) {
			if id == "slow" {
				<-release
			}
			return &gormModels.TableRow{ID: id}, nil
		},
	}
	c, _, _ := newTestCoordinator(store)

	slow := c.UpdateRow(editor, "slow", dtos.RowInput{})
	assert.True(t, c.IsPending(OpUpdateRow, "slow"))

	_, err := c.UpdateRow(editor, "fast", dtos.RowInput{}).Wait(context.Background())
	require.NoError(t, err)

	assert.True(t, c.IsPending(OpUpdateRow, "slow"))
	assert.False(t, c.IsPending(OpUpdateRow, "fast"))

	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "update_row", pending[0].Operation)
	assert.Equal(t, "slow", pending[0].TargetID)

	close(release)
	_, err = slow.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, c.IsPending(OpUpdateRow, "slow"))
}

func TestCoordinator_DestructiveNeedsConfirmation(t *testing.T) {
	var calls int32
	store := &mockStore{
		deleteRowFunc: func(ctx context.Context, id string) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
		deleteImageFunc: func(ctx context.Context, rowID string, index *int) (*gormModels.TableRow, error) {
			atomic.AddInt32(&calls, 1)
			return &gormModels.TableRow{ID: rowID}, nil
		},
	}
	c, feed, _ := newTestCoordinator(store)

	_, err := c.DeleteRow(editor, "row-1", false).Wait(context.Background())
	assert.ErrorIs(t, err, constants.ErrConfirmationRequired)

	_, err = c.DeleteImage(editor, "row-1", nil, false).Wait(context.Background())
	assert.ErrorIs(t, err, constants.ErrConfirmationRequired)

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Empty(t, feed.List(0))

	_, err = c.DeleteRow(editor, "row-1", true).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCoordinator_DeleteImageWithoutIndexClearsAll(t *testing.T) {
	release := make(chan struct{})
	var gotNil int32
	store := &mockStore{
		deleteImageFunc: func(ctx context.Context, rowID string, index *int) (*gormModels.TableRow, error) {
			if index == nil {
				atomic.StoreInt32(&gotNil, 1)
				<-release
			}
			return &gormModels.TableRow{ID: rowID, Images: gormModels.ImageList{}}, nil
		},
	}
	c, _, _ := newTestCoordinator(store)

	ticket := c.DeleteImage(editor, "row-1", nil, true)
	assert.True(t, c.IsPending(OpDeleteImage, "row-1/images"))
	assert.False(t, c.IsPending(OpDeleteImage, "row-1/images/0"))

	close(release)
	result, err := ticket.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gotNil))
	row, ok := result.(*gormModels.TableRow)
	require.True(t, ok)
	assert.Empty(t, row.Images)
	assert.False(t, c.IsPending(OpDeleteImage, "row-1/images"))
}

func TestCoordinator_CoreColumnDeleteRejectedLocally(t *testing.T) {
	var deletes int32
	store := &mockStore{
		getColumnFunc: func(ctx context.Context, id string) (*gormModels.TableColumn, error) {
			return &gormModels.TableColumn{ID: id, DataKey: "location"}, nil
		},
		deleteColumnFunc: func(ctx context.Context, id string) error {
			atomic.AddInt32(&deletes, 1)
			return nil
		},
	}
	c, feed, _ := newTestCoordinator(store)

	_, err := c.DeleteColumn(editor, "col-location", true).Wait(context.Background())
	assert.ErrorIs(t, err, constants.ErrProtected)
	assert.Equal(t, int32(0), atomic.LoadInt32(&deletes))
	assert.Equal(t, "Failed to delete column: "+constants.MsgCoreColumnDelete, feed.List(1)[0].Message)
}

func TestCoordinator_CustomColumnDelete(t *testing.T) {
	store := &mockStore{
		getColumnFunc: func(ctx context.Context, id string) (*gormModels.TableColumn, error) {
			return &gormModels.TableColumn{ID: id, DataKey: "driverNotes"}, nil
		},
		deleteColumnFunc: func(ctx context.Context, id string) error { return nil },
	}
	c, _, invalidations := newTestCoordinator(store)

	_, err := c.DeleteColumn(editor, "col-notes", true).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(invalidations))
}

func TestCoordinator_RequiresEditSession(t *testing.T) {
	c, _, _ := newTestCoordinator(&mockStore{})

	_, err := c.ReorderRows(nil, []string{"a"}).Wait(context.Background())
	assert.ErrorIs(t, err, constants.ErrUnauthorized)

	expired := &auth.EditSession{UserID: "bob", ExpiresAt: time.Now().Add(-time.Minute)}
	_, err = c.ReorderRows(expired, []string{"a"}).Wait(context.Background())
	assert.ErrorIs(t, err, constants.ErrUnauthorized)
}

func TestCoordinator_ApplySortCopiesIDs(t *testing.T) {
	var got []string
	store := &mockStore{
		reorderRowsFunc: func(ctx context.Context, ids []string) ([]gormModels.TableRow, error) {
			got = ids
			return nil, nil
		},
	}
	c, _, _ := newTestCoordinator(store)

	ids := []string{"b", "a"}
	ticket := c.ApplySort(editor, ids)
	ids[0] = "mutated"
	_, err := ticket.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestCoordinator_PanicBecomesError(t *testing.T) {
	store := &mockStore{
		reorderColumnsFunc: func(ctx context.Context, ids []string) ([]gormModels.TableColumn, error) {
			panic("boom")
		},
	}
	c, feed, _ := newTestCoordinator(store)

	_, err := c.ReorderColumns(editor, []string{"c1"}).Wait(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to reorder columns", feed.List(1)[0].Message)
}

func TestCoordinator_Drain(t *testing.T) {
	release := make(chan struct{})
	store := &mockStore{
		createRowFunc: func(ctx context.Context, in dtos.CreateRowRequest) (*gormModels.TableRow, error) {
			<-release
			return &gormModels.TableRow{ID: "new-row"}, nil
		},
	}
	c, _, _ := newTestCoordinator(store)
	c.CreateRow(editor, dtos.CreateRowRequest{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Drain(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, c.Drain(context.Background()))
}
