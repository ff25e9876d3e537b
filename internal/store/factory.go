package store

import (
	"fmt"
	"strings"
)

// Open constructs the JobStore implied by dsn. A "postgres://" or
// "postgresql://" prefix selects PostgresStore (dsn passed through
// verbatim). A "sqlite://" prefix (the DATABASE_URL default) or a bare path
// selects SQLiteStore.
func Open(dsn string) (JobStore, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLiteStore(strings.TrimPrefix(dsn, "sqlite://"))
	case dsn == "":
		return nil, fmt.Errorf("store: empty dsn")
	default:
		return NewSQLiteStore(dsn)
	}
}
