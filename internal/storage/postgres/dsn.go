package postgres

import (
	"net/url"
	"strings"

	"github.com/playpulse/playpulse-backend/config"
)

// DSN returns the configured connection string, defaulting sslmode to disable when the DSN does
// not set it. Both URL and key=value forms are accepted.
func DSN(cfg *config.DatabaseConfig) string {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" || strings.Contains(dsn, "sslmode=") {
		return dsn
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		return u.String()
	}

	return dsn + " sslmode=disable"
}
