package dbclient

import (
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// normalizeMySQLDSN forces utf8mb4 so emoji in email copy survive the
// round trip.
func normalizeMySQLDSN(dsn string) string {
	if strings.Contains(dsn, "charset=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&charset=utf8mb4"
	}
	return dsn + "?charset=utf8mb4"
}
