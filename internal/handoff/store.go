package handoff

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kodomoshop/storefront/internal/db"
)

// Store persists handoff records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new handoff record. If r.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, r Record) (*Record, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO handoff_links (id, message, item_count, total)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.Message, r.ItemCount, r.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting handoff record: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM handoff_links WHERE id = ?`, r.ID)
	if err := row.Scan(&r.CreatedAt); err != nil {
		return nil, fmt.Errorf("reading handoff timestamp: %w", err)
	}
	return &r, nil
}

// Recent returns the most recent handoff records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, item_count, total, created_at
		FROM handoff_links
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying handoff records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Message, &r.ItemCount, &r.Total, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning handoff record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading handoff records: %w", err)
	}
	return records, nil
}
