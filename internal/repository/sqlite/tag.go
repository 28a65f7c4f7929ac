package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/promptlab/internal/apperror"
	"github.com/sakif/promptlab/internal/model"
)

func tagsForPrompt(ctx context.Context, q queryer, promptID string) ([]model.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name FROM tags WHERE prompt_id = ? ORDER BY rowid`, promptID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags for prompt %s: %w", promptID, err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}
	return tags, nil
}

// replaceTags makes the stored tag set for promptID exactly tags, in order.
// Names already seen earlier in tags are dropped.
func replaceTags(ctx context.Context, q queryer, promptID string, tags []model.Tag) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM tags WHERE prompt_id = ?`, promptID); err != nil {
		return fmt.Errorf("sqlite: clearing tags for prompt %s: %w", promptID, err)
	}
	return insertTags(ctx, q, promptID, tags)
}

// insertTags appends tags, silently skipping names the prompt already carries.
func insertTags(ctx context.Context, q queryer, promptID string, tags []model.Tag) error {
	for _, t := range tags {
		_, err := q.ExecContext(ctx,
			`INSERT INTO tags (id, prompt_id, name) VALUES (?, ?, ?)
			 ON CONFLICT(prompt_id, name) DO NOTHING`,
			t.ID, promptID, t.Name,
		)
		if err != nil {
			return fmt.Errorf("sqlite: adding tag %q to prompt %s: %w", t.Name, promptID, err)
		}
	}
	return nil
}

func (db *DB) AddTagsToPrompt(ctx context.Context, promptID string, tags []model.Tag) (*model.Prompt, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning add tags: %w", err)
	}
	defer tx.Rollback()

	if _, err := getPrompt(ctx, tx, promptID); err != nil {
		return nil, err
	}
	if err := insertTags(ctx, tx, promptID, tags); err != nil {
		return nil, err
	}
	p, err := getPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing tags for prompt %s: %w", promptID, err)
	}
	return &p, nil
}

func (db *DB) GetTagsForPrompt(ctx context.Context, promptID string) ([]model.Tag, error) {
	p, err := getPrompt(ctx, db.conn, promptID)
	if err != nil {
		return nil, err
	}
	return p.Tags, nil
}

func (db *DB) RemoveTagFromPrompt(ctx context.Context, promptID, tagName string) (*model.Prompt, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning remove tag: %w", err)
	}
	defer tx.Rollback()

	if _, err := getPrompt(ctx, tx, promptID); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM tags WHERE prompt_id = ? AND name = ?`, promptID, tagName)
	if err != nil {
		return nil, fmt.Errorf("sqlite: removing tag %q from prompt %s: %w", tagName, promptID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.TagNotFound(promptID, tagName)
	}

	p, err := getPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing tag removal for prompt %s: %w", promptID, err)
	}
	return &p, nil
}

// SearchPromptsByTag matches names exactly. SQLite's = on TEXT is
// case-sensitive under the default BINARY collation.
func (db *DB) SearchPromptsByTag(ctx context.Context, tagName string) ([]model.Prompt, error) {
	return db.selectPrompts(ctx,
		`SELECT `+promptColumns+` FROM prompts
		 WHERE id IN (SELECT prompt_id FROM tags WHERE name = ?)`, tagName)
}
