package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"route-vending/tablegrid/internal/models/entities"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLayoutRepo(t *testing.T) (*LayoutRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLayoutRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestLayoutRepository_Get(t *testing.T) {
	repo, mock := newMockLayoutRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"user_id", "column_order", "column_visibility", "creator_name", "creator_url", "updated_at"}).
		AddRow("u1", `["a","b"]`, `["a"]`, "Somebody", "", now)
	mock.ExpectQuery(`SELECT user_id, column_order`).
		WithArgs("u1").
		WillReturnRows(rows)

	pref, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, entities.StringArray{"a", "b"}, pref.ColumnOrder)
	assert.Equal(t, entities.StringArray{"a"}, pref.ColumnVisibility)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoutRepository_GetMissing(t *testing.T) {
	repo, mock := newMockLayoutRepo(t)
	mock.ExpectQuery(`SELECT user_id`).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	pref, err := repo.Get(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, pref)
}

func TestLayoutRepository_GetError(t *testing.T) {
	repo, mock := newMockLayoutRepo(t)
	mock.ExpectQuery(`SELECT user_id`).WithArgs("u1").WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "u1")
	assert.Error(t, err)
}

func TestLayoutRepository_Upsert(t *testing.T) {
	repo, mock := newMockLayoutRepo(t)
	mock.ExpectExec(`INSERT INTO layout_preferences`).
		WithArgs("u1", `["a","b"]`, `["b"]`, "Ali", "https://ali.test").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &entities.LayoutPreference{
		UserID:           "u1",
		ColumnOrder:      entities.StringArray{"a", "b"},
		ColumnVisibility: entities.StringArray{"b"},
		CreatorName:      "Ali",
		CreatorURL:       "https://ali.test",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
