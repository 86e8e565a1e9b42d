package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the application tables and indexes when they do not
// exist yet. Both binaries call it at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS themes (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			prompt TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			image_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS products_by_user ON products (user_id);`,
		`CREATE TABLE IF NOT EXISTS generations (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_ids TEXT[] NOT NULL,
			theme TEXT NOT NULL,
			style TEXT NOT NULL,
			prompt TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			result_image_id TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS generations_by_user ON generations (user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS generations_by_status ON generations (status, created_at ASC);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
