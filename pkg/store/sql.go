package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"card-shoggoths-server/pkg/db"
)

// SQL is a Store backed by postgres or sqlite
type SQL struct {
	db     *sql.DB
	driver string
}

// NewSQL wraps an open database
// The sessions table must already exist.
func NewSQL(database *sql.DB, driver string) *SQL {
	return &SQL{
		db:     database,
		driver: driver,
	}
}

// rebind converts ? placeholders to $n for postgres
func (s *SQL) rebind(query string) string {
	if s.driver != db.DriverPostgres {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

// Load returns the session or ErrNotFound
func (s *SQL) Load(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
SELECT id, data, created_at_ms, updated_at_ms
FROM sessions
WHERE id = ?`), id)

	session, err := scanSession(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	return session, err
}

// Save creates or replaces the session
func (s *SQL) Save(ctx context.Context, session *Session) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO sessions (id, data, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at_ms = excluded.updated_at_ms`),
		session.ID,
		string(session.Data),
		session.CreatedAt.UnixMilli(),
		session.UpdatedAt.UnixMilli(),
	)

	return err
}

// Delete removes the session
func (s *SQL) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE id = ?`), id)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns every session without its data
func (s *SQL) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, '', created_at_ms, updated_at_ms
FROM sessions
ORDER BY updated_at_ms DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*Session, 0)
	for rows.Next() {
		session, err := scanSession(rows, false)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// DeleteExpired removes sessions last updated before the cutoff
func (s *SQL) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE updated_at_ms < ?`), cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// Close closes the database
func (s *SQL) Close() error {
	return s.db.Close()
}

func scanSession(row db.Scanner, withData bool) (*Session, error) {
	var session Session
	var data string
	var createdAt, updatedAt int64
	if err := row.Scan(&session.ID, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if withData {
		session.Data = []byte(data)
	}

	session.CreatedAt = time.UnixMilli(createdAt)
	session.UpdatedAt = time.UnixMilli(updatedAt)
	return &session, nil
}
