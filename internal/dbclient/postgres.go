package dbclient

import (
	"strings"

	_ "github.com/lib/pq"
)

// normalizePostgresDSN disables TLS for key=value DSNs that don't choose a
// mode, matching local development servers. URLs are passed through.
func normalizePostgresDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return dsn
	}
	if !strings.Contains(dsn, "sslmode=") {
		dsn = strings.TrimSpace(dsn + " sslmode=disable")
	}
	return dsn
}
