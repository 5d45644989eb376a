package services

import (
	"context"
	"testing"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/config"
	"route-vending/tablegrid/internal/db"
	"route-vending/tablegrid/internal/db/repositories"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"github.com/stretchr/testify/require"
)

var editor = &auth.EditSession{SessionID: "s-1", UserID: "alice", ExpiresAt: time.Now().Add(time.Hour)}

// Setup test database: migrated and seeded sqlite in memory.
func setupTestDB(t *testing.T) *db.Connections {
	t.Helper()
	ctx := context.Background()

	conns, err := db.Open(ctx, config.DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	require.NoError(t, conns.Migrate())
	require.NoError(t, db.Seed(ctx, conns.ORM))
	return conns
}

func newTableService(conns *db.Connections) *TableService {
	return NewTableService(
		repositories.NewRowRepository(conns.ORM),
		repositories.NewColumnRepository(conns.ORM),
	)
}

func newMemoryCache(t *testing.T) common.CacheInterface {
	c := common.NewCacheService(time.Minute, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func rowByLocation(t *testing.T, rows []gormModels.TableRow, location string) gormModels.TableRow {
	t.Helper()
	for _, r := range rows {
		if r.Location == location {
			return r
		}
	}
	t.Fatalf("no row at %q", location)
	return gormModels.TableRow{}
}

func columnByKey(t *testing.T, cols []gormModels.TableColumn, dataKey string) gormModels.TableColumn {
	t.Helper()
	for _, c := range cols {
		if c.DataKey == dataKey {
			return c
		}
	}
	t.Fatalf("no column %q", dataKey)
	return gormModels.TableColumn{}
}

func locations(rows []gormModels.TableRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Location
	}
	return out
}
