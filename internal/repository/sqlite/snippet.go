package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/snippet-api/internal/apperror"
	"github.com/sakif/snippet-api/internal/model"
	"github.com/sakif/snippet-api/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// This line verifies AT COMPILE TIME that *DB implements repository.SnippetRepository.
//
// How it works:
//   - `var _ X = (*Y)(nil)` creates a nil pointer of type *Y
//   - It assigns it to a variable of type X (the interface)
//   - If *Y doesn't implement X, the compiler errors immediately
//   - The `_` means we don't actually use the variable — it's just a check
var _ repository.SnippetRepository = (*DB)(nil)

// Create inserts a new snippet and fills in its system-assigned fields.
//
// KEY CONCEPTS:
//
//  1. ID ASSIGNMENT:
//     The id column is INTEGER PRIMARY KEY AUTOINCREMENT, so SQLite picks the
//     value. result.LastInsertId() hands it back, and we write it onto the
//     caller's struct — after Create returns, snippet.ID is the real row id.
//
//  2. POINTER RECEIVER (*model.Snippet):
//     We take a pointer so we can MODIFY the original struct.
//     If we took a value (model.Snippet), the assigned ID would be lost.
//
//  3. PARAMETERIZED QUERIES (the ? placeholders):
//     NEVER build SQL strings from user input — the driver fills the
//     placeholders safely, which is what prevents SQL injection.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (title, code, linenos, language, style, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	// LastInsertId is how SQLite reports the AUTOINCREMENT value it chose.
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new snippet id: %w", err)
	}
	snippet.ID = id

	return nil
}

// GetByID retrieves a single snippet by its ID.
//
// sql.ErrNoRows is NOT really an error — it just means "no matching row
// exists". We translate it to our app's NotFound error so the handler knows
// to return 404. Translating database errors into domain errors at this
// boundary keeps the layers above SQL-free.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	var snippet model.Snippet

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, code, linenos, language, style, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&snippet.ID,
		&snippet.Title,
		&snippet.Code,
		&snippet.Linenos,
		&snippet.Language,
		&snippet.Style,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %d: %w", id, err)
	}

	return &snippet, nil
}

// List retrieves multiple snippets with LIMIT/OFFSET pagination, oldest first
// (ascending id — the natural reading order for a numbered collection).
//
// defer rows.Close() is CRITICAL: sql.Rows holds a connection from the pool,
// and a forgotten Close leaks it until the pool is exhausted. Always check
// rows.Err() after the loop — it catches errors that happened DURING
// iteration.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, code, linenos, language, style, created_at, updated_at
		 FROM snippets
		 ORDER BY id ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, limit)

	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Code, &s.Linenos, &s.Language, &s.Style,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update rewrites an existing snippet's mutable columns.
//
// We update title, code, linenos, language, style, and updated_at.
// We do NOT update id or created_at (those are immutable).
// RowsAffected() == 0 means the WHERE clause matched nothing → not found.
// That's one query instead of a SELECT + UPDATE pair.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, linenos = ?, language = ?, style = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %d: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet from the database by its ID.
//
// Same pattern as Update — check RowsAffected to detect "not found".
func (db *DB) Delete(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
