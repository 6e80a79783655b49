package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Usage is one function's usage snapshot.
type Usage struct {
	Name     string    `json:"name"`
	Count    int64     `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// RecordUsage bumps the counter for a function and stamps last_used.
func (s *Store) RecordUsage(ctx context.Context, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO function_usage (name, count, last_used) VALUES ($1, 1, $2)
		 ON CONFLICT (name) DO UPDATE SET count = function_usage.count + 1, last_used = $2`,
		name, now)
	if err != nil {
		return fmt.Errorf("record usage %s: %w", name, err)
	}
	return nil
}

// GetUsage returns the snapshot for one function; a never-used function
// yields a zero-count snapshot, not an error.
func (s *Store) GetUsage(ctx context.Context, name string) (Usage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT count, last_used FROM function_usage WHERE name = $1`, name)

	u := Usage{Name: name}
	var lastUsed string
	if err := row.Scan(&u.Count, &lastUsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, nil
		}
		return Usage{}, fmt.Errorf("get usage %s: %w", name, err)
	}
	if lastUsed != "" {
		if t, err := time.Parse(time.RFC3339, lastUsed); err == nil {
			u.LastUsed = t
		}
	}
	return u, nil
}

// ListUsage returns all usage snapshots ordered by count descending.
func (s *Store) ListUsage(ctx context.Context) ([]Usage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, count, last_used FROM function_usage ORDER BY count DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var out []Usage
	for rows.Next() {
		var u Usage
		var lastUsed string
		if err := rows.Scan(&u.Name, &u.Count, &lastUsed); err != nil {
			return nil, fmt.Errorf("list usage: scan: %w", err)
		}
		if lastUsed != "" {
			if t, err := time.Parse(time.RFC3339, lastUsed); err == nil {
				u.LastUsed = t
			}
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
