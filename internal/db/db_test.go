package db

import (
	"context"
	"testing"

	"route-vending/tablegrid/internal/config"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Connections {
	t.Helper()
	conns, err := Open(context.Background(), config.DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })
	return conns
}

func TestMigrateAndSeed(t *testing.T) {
	conns := openTestDB(t)
	require.NoError(t, conns.Migrate())

	version, err := conns.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	require.NoError(t, Seed(context.Background(), conns.ORM))
	// second run is a no-op
	require.NoError(t, Seed(context.Background(), conns.ORM))

	var cols []gormModels.TableColumn
	require.NoError(t, conns.ORM.Order("sort_order").Find(&cols).Error)
	assert.Len(t, cols, len(DefaultColumns()))
	assert.Equal(t, "id", cols[0].DataKey)

	var rows []gormModels.TableRow
	require.NoError(t, conns.ORM.Order("sort_order").Find(&rows).Error)
	require.Len(t, rows, len(SampleRows()))
	assert.True(t, rows[0].IsDepot())
	assert.Len(t, rows[1].Images, 2)
	assert.Equal(t, "Sample information for row 1", rows[1].Info.Address)

	require.NoError(t, conns.Ping(context.Background()))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
