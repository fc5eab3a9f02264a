package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"emailbuilder/internal/storage"
)

// openSQL opens a pooled connection, pings it and migrates the kv table.
func openSQL(ctx context.Context, driverName, dsn string, dialect storage.Dialect) (Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// A single editing session never needs more than a handful of connections.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}
	for _, m := range storage.Migrations(dialect) {
		if _, err := db.ExecContext(ctx, m); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate %s: %w", driverName, err)
		}
	}
	return storage.NewSQLKV(db, dialect), nil
}
