package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenDB opens the session database. driver is "sqlite" or "postgres".
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One connection: an in-memory database is private to its connection,
		// and sqlite serialises writers anyway.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions(
  id            TEXT PRIMARY KEY,   -- same value as the 'sid' cookie
  access_token  TEXT NOT NULL,      -- sealed
  refresh_token TEXT NOT NULL,      -- sealed
  user_json     TEXT NOT NULL,
  created_at    BIGINT NOT NULL,
  last_seen     BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen);
`
	if db.DriverName() == "sqlite" {
		schema = "PRAGMA journal_mode = WAL;\n" + schema
	}
	_, err := db.Exec(schema)
	return err
}
