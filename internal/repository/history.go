package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RenameRecord is one applied rename with the facts that drove it.
type RenameRecord struct {
	ID            uuid.UUID `json:"id"`
	OldPath       string    `json:"old_path"`
	NewPath       string    `json:"new_path"`
	SuggestedName string    `json:"suggested_name"`
	Dates         []string  `json:"dates"`
	Names         []string  `json:"names"`
	Organizations []string  `json:"organizations"`
	RenamedAt     time.Time `json:"renamed_at"`
}

// AppendRename records an applied rename.
func (s *Store) AppendRename(ctx context.Context, rec RenameRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.RenamedAt.IsZero() {
		rec.RenamedAt = time.Now().UTC()
	}
	dates, names, orgs, err := encodeFacts(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rename_history
		 (id, old_path, new_path, suggested_name, dates, names, organizations, renamed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID.String(), rec.OldPath, rec.NewPath, rec.SuggestedName,
		dates, names, orgs, rec.RenamedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append rename history: %w", err)
	}
	return nil
}

// ListRenames returns history rows, newest first, capped at limit
// (limit <= 0 means no cap).
func (s *Store) ListRenames(ctx context.Context, limit int) ([]RenameRecord, error) {
	q := `SELECT id, old_path, new_path, suggested_name, dates, names, organizations, renamed_at
	      FROM rename_history ORDER BY renamed_at DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+` LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("list rename history: %w", err)
	}
	defer rows.Close()

	var out []RenameRecord
	for rows.Next() {
		var rec RenameRecord
		var id, dates, names, orgs, renamedAt string
		if err := rows.Scan(&id, &rec.OldPath, &rec.NewPath, &rec.SuggestedName,
			&dates, &names, &orgs, &renamedAt); err != nil {
			return nil, fmt.Errorf("list rename history: scan: %w", err)
		}
		rec.ID, _ = uuid.Parse(id)
		if t, err := time.Parse(time.RFC3339, renamedAt); err == nil {
			rec.RenamedAt = t
		}
		_ = json.Unmarshal([]byte(dates), &rec.Dates)
		_ = json.Unmarshal([]byte(names), &rec.Names)
		_ = json.Unmarshal([]byte(orgs), &rec.Organizations)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func encodeFacts(rec RenameRecord) (string, string, string, error) {
	dates, err := json.Marshal(orEmpty(rec.Dates))
	if err != nil {
		return "", "", "", fmt.Errorf("encode dates: %w", err)
	}
	names, err := json.Marshal(orEmpty(rec.Names))
	if err != nil {
		return "", "", "", fmt.Errorf("encode names: %w", err)
	}
	orgs, err := json.Marshal(orEmpty(rec.Organizations))
	if err != nil {
		return "", "", "", fmt.Errorf("encode organizations: %w", err)
	}
	return string(dates), string(names), string(orgs), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
