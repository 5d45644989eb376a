package services

import (
	"context"
	"time"

	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/metrics"
	gormModels "route-vending/tablegrid/internal/models/gorm"

	"golang.org/x/sync/singleflight"
)

// TableSource lists the raw collections.
type TableSource interface {
	ListRows(ctx context.Context) ([]gormModels.TableRow, error)
	ListColumns(ctx context.Context) ([]gormModels.TableColumn, error)
}

// TableCache holds the row and column collections between mutations.
// Concurrent misses share one store read.
type TableCache struct {
	source  TableSource
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
	group   singleflight.Group
}

func NewTableCache(source TableSource, cache common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *TableCache {
	return &TableCache{
		source:  source,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
	}
}

func (c *TableCache) Rows(ctx context.Context) ([]gormModels.TableRow, error) {
	key := string(constants.CachePrefixRows)

	var rows []gormModels.TableRow
	if c.cache.GetInto(key, &rows) {
		c.metrics.CacheLookup(key, true)
		return rows, nil
	}
	c.metrics.CacheLookup(key, false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		rows, err := c.source.ListRows(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, rows, c.ttl)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]gormModels.TableRow), nil
}

func (c *TableCache) Columns(ctx context.Context) ([]gormModels.TableColumn, error) {
	key := string(constants.CachePrefixColumns)

	var cols []gormModels.TableColumn
	if c.cache.GetInto(key, &cols) {
		c.metrics.CacheLookup(key, true)
		return cols, nil
	}
	c.metrics.CacheLookup(key, false)

	v, err, _ := c.group.Do(key, func() (any, error) {
		cols, err := c.source.ListColumns(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, cols, c.ttl)
		return cols, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]gormModels.TableColumn), nil
}

// ListColumns lets the cache stand in wherever a ColumnLister is needed.
func (c *TableCache) ListColumns(ctx context.Context) ([]gormModels.TableColumn, error) {
	return c.Columns(ctx)
}

// Invalidate drops both collections so the next read refetches them.
func (c *TableCache) Invalidate() {
	c.cache.DeletePrefix(string(constants.CachePrefixRows))
	c.cache.DeletePrefix(string(constants.CachePrefixColumns))
	logging.Debug("Table cache invalidated")
}
