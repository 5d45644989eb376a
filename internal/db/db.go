package db

import (
	"context"
	"fmt"
	"time"

	"route-vending/tablegrid/internal/config"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const retryDelay = 500 * time.Millisecond

// Connections holds the gorm and sqlx handles. Both share one pool.
type Connections struct {
	ORM    *gorm.DB
	SQL    *sqlx.DB
	Driver string
}

// Open connects to the configured database, retrying postgres until it
// answers or MaxRetries is exhausted.
func Open(ctx context.Context, cfg config.DBConfig) (*Connections, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.Driver {
	case "sqlite":
		orm, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite pool: %w", err)
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
		logging.Info("Connected to sqlite", "dsn", cfg.DSN)
		return &Connections{ORM: orm, SQL: sqlx.NewDb(sqlDB, "sqlite3"), Driver: cfg.Driver}, nil

	case "postgres":
		sqlxDB, err := connectWithRetry(ctx, cfg.DSN, max(1, cfg.MaxRetries))
		if err != nil {
			return nil, err
		}
		orm, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlxDB.DB}), gormCfg)
		if err != nil {
			_ = sqlxDB.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logging.Info("Connected to Postgres via GORM")
		return &Connections{ORM: orm, SQL: sqlxDB, Driver: cfg.Driver}, nil

	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

func connectWithRetry(ctx context.Context, dsn string, attempts int) (*sqlx.DB, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		logging.Warn("Postgres not ready", "attempt", i, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempts, lastErr)
}

// Ping checks the shared pool.
func (c *Connections) Ping(ctx context.Context) error {
	var one int
	if err := c.SQL.GetContext(ctx, &one, constants.PingQuery); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

// Close releases the pool.
func (c *Connections) Close() error {
	return c.SQL.Close()
}
