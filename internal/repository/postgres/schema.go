package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the documents table and its indexes. Each
// statement is idempotent so startup bootstrap is safe to re-run.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id SERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE,
		title VARCHAR NOT NULL,
		content TEXT NOT NULL,
		category VARCHAR NOT NULL,
		tags JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_category ON documents (category)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at)`,
}

// EnsureSchema creates the documents table and indexes if they do not
// already exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
