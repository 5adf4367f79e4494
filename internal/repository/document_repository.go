package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DocumentRepository is a path-addressed JSON store on sqlite. It stands in
// for the Realtime Database when running without Firebase.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func cleanPath(path string) string {
	return strings.Trim(path, "/")
}

func (r *DocumentRepository) Get(ctx context.Context, _ string, path string) (json.RawMessage, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE path = ?`, cleanPath(path)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Error trying to get document %s: %w", path, err)
	}
	if value == "null" {
		return nil, nil
	}
	return json.RawMessage(value), nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertDocument(ctx context.Context, ex execer, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", path, err)
	}

	query := `
		INSERT INTO documents (path, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := ex.ExecContext(ctx, query, cleanPath(path), string(b)); err != nil {
		return fmt.Errorf("Error trying to set document %s: %w", path, err)
	}
	return nil
}

func (r *DocumentRepository) Set(ctx context.Context, _ string, path string, value any) error {
	return upsertDocument(ctx, r.db, path, value)
}

// Update writes every child of path inside one transaction.
func (r *DocumentRepository) Update(ctx context.Context, _ string, path string, children map[string]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Error trying to begin update of %s: %w", path, err)
	}
	defer tx.Rollback()

	for _, key := range slices.Sorted(maps.Keys(children)) {
		if err := upsertDocument(ctx, tx, cleanPath(path)+"/"+cleanPath(key), children[key]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Error trying to commit update of %s: %w", path, err)
	}
	return nil
}
