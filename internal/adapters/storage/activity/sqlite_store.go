package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mergington/internal/adapters/storage"
	domain "mergington/internal/domain/activity"
)

// SQLiteStore implements Store using SQLite.
// Roster order is kept in participant.position; List order follows the
// activity rowid, which an upsert leaves untouched.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new activity store over an initialised database.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByName retrieves an Activity by its exact name.
// PRE: none
// POST: Returns the activity with its ordered roster, or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Activity, error) {
	var a domain.Activity
	err := s.db.QueryRowContext(ctx,
		"SELECT name, description, schedule, max_participants FROM activity WHERE name = ?", name,
	).Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Activity{}, fmt.Errorf("activity %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Activity{}, fmt.Errorf("get activity %q: %w", name, err)
	}

	rosters, err := s.rosters(ctx, "WHERE activity_name = ?", name)
	if err != nil {
		return domain.Activity{}, err
	}
	a.Participants = rosters[name]
	return a.Clone(), nil
}

// Save persists an Activity and replaces its roster.
// PRE: value has been validated
// POST: activity row upserted and participant rows rewritten in roster order
func (s *SQLiteStore) Save(ctx context.Context, value domain.Activity) error {
	if err := value.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %q: %w", value.Name, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO activity (name, description, schedule, max_participants) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description=excluded.description,
			schedule=excluded.schedule,
			max_participants=excluded.max_participants`,
		value.Name, value.Description, value.Schedule, value.MaxParticipants,
	)
	if err != nil {
		return fmt.Errorf("save activity %q: %w", value.Name, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participant WHERE activity_name = ?", value.Name); err != nil {
		return fmt.Errorf("clear roster %q: %w", value.Name, err)
	}
	for i, email := range value.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participant (activity_name, email, position) VALUES (?, ?, ?)",
			value.Name, email, i,
		)
		if err != nil {
			return fmt.Errorf("save participant %q in %q: %w", email, value.Name, err)
		}
	}

	return tx.Commit()
}

// List returns every activity in first-saved order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, schedule, max_participants FROM activity ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var list []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list activities: %w", err)
	}
	// The rows must be released before the next query: an in-memory
	// database runs on a single connection.
	rows.Close()

	rosters, err := s.rosters(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Participants = rosters[list[i].Name]
		list[i] = list[i].Clone()
	}
	return list, nil
}

// rosters loads participant emails grouped by activity, in position order.
func (s *SQLiteStore) rosters(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT activity_name, email FROM participant "+where+" ORDER BY activity_name, position", args...)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, email string
		if err := rows.Scan(&name, &email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out[name] = append(out[name], email)
	}
	return out, rows.Err()
}
