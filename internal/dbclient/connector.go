package dbclient

import (
	"context"
	"fmt"
	"io"
	"time"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/storage"
)

// Store is a remote key-value backend for design systems and templates.
type Store interface {
	domain.KVStore
	io.Closer
}

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
)

// opTimeout bounds each KV call; the KVStore contract carries no context.
const opTimeout = 10 * time.Second

// Options carries the connection settings for Open.
type Options struct {
	DSN      string
	Database string // mongo database name
}

// Open connects to a remote store and verifies connectivity. The SQL
// drivers migrate the kv_entries table on first use.
func Open(ctx context.Context, driver string, opts Options) (Store, error) {
	switch driver {
	case DriverPostgres:
		return openSQL(ctx, "postgres", normalizePostgresDSN(opts.DSN), storage.DialectPostgres)
	case DriverMySQL:
		return openSQL(ctx, "mysql", normalizeMySQLDSN(opts.DSN), storage.DialectMySQL)
	case DriverMongo:
		return openMongo(ctx, opts.DSN, opts.Database)
	case DriverRedis:
		return openRedis(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnsupportedDriver, driver)
	}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
