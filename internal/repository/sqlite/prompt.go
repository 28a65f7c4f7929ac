package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/model"
)

const promptColumns = `id, title, content, description, collection_id, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx, so read helpers work
// inside and outside a transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (model.Prompt, error) {
	var (
		p                         model.Prompt
		description, collectionID sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &description, &collectionID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.Prompt{}, err
	}
	p.Description = stringPtr(description)
	p.CollectionID = stringPtr(collectionID)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.Tags = []model.Tag{}
	return p, nil
}

// CreatePrompt upserts p and replaces its tags in one transaction. An existing
// row with the same ID is overwritten.
func (db *DB) CreatePrompt(ctx context.Context, p *model.Prompt) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning create prompt: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO prompts (`+promptColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			description = excluded.description,
			collection_id = excluded.collection_id,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, p.Content,
		nullString(p.Description), nullString(p.CollectionID),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating prompt: %w", err)
	}

	if err := replaceTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing prompt %s: %w", p.ID, err)
	}
	return nil
}

func (db *DB) GetPrompt(ctx context.Context, id string) (*model.Prompt, error) {
	p, err := getPrompt(ctx, db.conn, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func getPrompt(ctx context.Context, q queryer, id string) (model.Prompt, error) {
	p, err := scanPrompt(q.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Prompt{}, apperror.NotFound("prompt", id)
		}
		return model.Prompt{}, fmt.Errorf("sqlite: getting prompt %s: %w", id, err)
	}

	tags, err := tagsForPrompt(ctx, q, id)
	if err != nil {
		return model.Prompt{}, err
	}
	p.Tags = tags
	return p, nil
}

func (db *DB) ListPrompts(ctx context.Context) ([]model.Prompt, error) {
	return db.selectPrompts(ctx, `SELECT `+promptColumns+` FROM prompts`)
}

func (db *DB) GetPromptsByCollection(ctx context.Context, collectionID string) ([]model.Prompt, error) {
	return db.selectPrompts(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE collection_id = ?`, collectionID)
}

// selectPrompts runs a prompt query and attaches every prompt's tags.
func (db *DB) selectPrompts(ctx context.Context, query string, args ...any) ([]model.Prompt, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]model.Prompt, 0)
	index := make(map[string]int)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning prompt row: %w", err)
		}
		index[p.ID] = len(prompts)
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating prompts: %w", err)
	}
	// Release the single pooled connection before the tag query needs it.
	rows.Close()

	if len(prompts) == 0 {
		return prompts, nil
	}

	tagRows, err := db.conn.QueryContext(ctx,
		`SELECT id, prompt_id, name FROM tags ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var (
			t        model.Tag
			promptID string
		)
		if err := tagRows.Scan(&t.ID, &promptID, &t.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		if i, ok := index[promptID]; ok {
			prompts[i].Tags = append(prompts[i].Tags, t)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return prompts, nil
}

// UpdatePrompt rewrites every column except id and replaces the tag set.
func (db *DB) UpdatePrompt(ctx context.Context, id string, p *model.Prompt) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE prompts
		 SET title = ?, content = ?, description = ?, collection_id = ?,
		     created_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Content,
		nullString(p.Description), nullString(p.CollectionID),
		p.CreatedAt, p.UpdatedAt,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating prompt %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("prompt", id)
	}
	return nil
}

// DeletePrompt removes the prompt; ON DELETE CASCADE removes its tags.
func (db *DB) DeletePrompt(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting prompt %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("prompt", id)
	}

	return nil
}
