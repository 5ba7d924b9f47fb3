package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the news and subscribers tables if they are absent.
// There is no migration history; the schema is bootstrapped at startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS news (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			link TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			explainer TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS subscribers (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE
		);

		CREATE INDEX IF NOT EXISTS idx_news_category ON news (LOWER(category));`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}
