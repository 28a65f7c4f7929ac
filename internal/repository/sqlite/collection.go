package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/model"
)

func scanCollection(row rowScanner) (model.Collection, error) {
	var (
		c           model.Collection
		description sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
		return model.Collection{}, err
	}
	c.Description = stringPtr(description)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

// CreateCollection upserts c; an existing row with the same ID is overwritten.
func (db *DB) CreateCollection(ctx context.Context, c *model.Collection) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO collections (id, name, description, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			created_at = excluded.created_at`,
		c.ID, c.Name, nullString(c.Description), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating collection: %w", err)
	}
	return nil
}

func (db *DB) GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	c, err := scanCollection(db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM collections WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("collection", id)
		}
		return nil, fmt.Errorf("sqlite: getting collection %s: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListCollections(ctx context.Context) ([]model.Collection, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing collections: %w", err)
	}
	defer rows.Close()

	collections := make([]model.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning collection row: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating collections: %w", err)
	}

	return collections, nil
}

// DeleteCollection removes only the collection row. Detaching its prompts is
// the caller's job and must happen first.
func (db *DB) DeleteCollection(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting collection %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("collection", id)
	}

	return nil
}
