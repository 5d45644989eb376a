package api

import (
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/config"
	"route-vending/tablegrid/internal/db"
	"route-vending/tablegrid/internal/db/repositories"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/mutations"
	"route-vending/tablegrid/internal/services"
)

type Repositories struct {
	Rows    *repositories.RowRepository
	Columns *repositories.ColumnRepository
	Layouts *repositories.LayoutRepository
}

type Services struct {
	Cache         common.CacheInterface
	Table         *services.TableService
	TableCache    *services.TableCache
	Layouts       *services.LayoutService
	Views         *services.ViewService
	Coordinator   *mutations.Coordinator
	Notifications *common.NotificationFeed
	Sessions      *auth.SessionIssuer
}

type Dependencies struct {
	Config   *config.Config
	DB       *db.Connections
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	UpSince  time.Time
}

// InitDependencies wires repositories and services over open connections.
func InitDependencies(cfg *config.Config, conns *db.Connections, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Rows:    repositories.NewRowRepository(conns.ORM),
		Columns: repositories.NewColumnRepository(conns.ORM),
		Layouts: repositories.NewLayoutRepository(conns.SQL),
	}

	cache := common.NewCache(cfg)
	feed := common.NewNotificationFeed(cfg.Mutation.NotificationSize)

	table := services.NewTableService(repos.Rows, repos.Columns)
	tableCache := services.NewTableCache(table, cache, cfg.Cache.ViewTTL, metricsReg)
	layouts := services.NewLayoutService(repos.Layouts, tableCache, cache, cfg.Cache.LayoutTTL, metricsReg)
	coordinator := mutations.NewCoordinator(table, tableCache.Invalidate, feed, metricsReg, cfg.Mutation.Timeout)
	views := services.NewViewService(tableCache, layouts, coordinator, cache, cfg.Cache.StateTTL, metricsReg)

	sessions := auth.NewSessionIssuer(
		auth.NewStaticSecretChecker(cfg.Auth.EditSecret),
		cfg.Auth.SigningKey,
		cfg.Auth.TokenTTL,
		cache,
	)

	return &Dependencies{
		Config: cfg,
		DB:     conns,
		Repo:   repos,
		Services: &Services{
			Cache:         cache,
			Table:         table,
			TableCache:    tableCache,
			Layouts:       layouts,
			Views:         views,
			Coordinator:   coordinator,
			Notifications: feed,
			Sessions:      sessions,
		},
		Metrics: metricsReg,
		UpSince: time.Now(),
	}, nil
}
