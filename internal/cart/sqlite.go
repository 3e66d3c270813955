package cart

import (
	"fmt"

	"github.com/kodomoshop/storefront/internal/db"
)

// SQLiteMirror persists the cart in the cart_lines table, one row per line.
// Saves replace the table contents wholesale inside a transaction so the
// stored cart is never a mix of two states.
type SQLiteMirror struct {
	db *db.DB
}

// NewSQLiteMirror creates a mirror backed by the given database.
func NewSQLiteMirror(database *db.DB) *SQLiteMirror {
	return &SQLiteMirror{db: database}
}

// Load reads all cart lines in insertion order. Rows that violate the cart
// invariants are skipped rather than failing the load.
func (m *SQLiteMirror) Load() ([]Line, error) {
	rows, err := m.db.Query(
		`SELECT id, name, category, price, qty, stock FROM cart_lines ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying cart lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.Price, &l.Qty, &l.Stock); err != nil {
			continue
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cart lines: %w", err)
	}
	return lines, nil
}

// Save replaces all stored lines with the given ones.
func (m *SQLiteMirror) Save(lines []Line) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cart save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cart_lines`); err != nil {
		return fmt.Errorf("clearing cart lines: %w", err)
	}

	for pos, l := range lines {
		_, err := tx.Exec(
			`INSERT INTO cart_lines (id, name, category, price, qty, stock, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Category, l.Price, l.Qty, l.Stock, pos,
		)
		if err != nil {
			return fmt.Errorf("inserting cart line %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cart save: %w", err)
	}
	return nil
}
