package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryPath is the DSN for a private in-memory database.
const MemoryPath = ":memory:"

// OpenDB opens the SQLite database at path and prepares the schema.
// PRE: path is a file path or MemoryPath
// POST: Returns a pinged connection with all tables created
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, so the pool
	// must never grow past one.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(8)
		db.SetMaxIdleConns(8)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: activity and participant tables exist, foreign keys enforced
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS activity (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		schedule TEXT NOT NULL,
		max_participants INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS participant (
		activity_name TEXT NOT NULL,
		email TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (activity_name, email),
		FOREIGN KEY (activity_name) REFERENCES activity(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_participant_position ON participant(activity_name, position);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
