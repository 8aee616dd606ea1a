package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"techdocs/internal/domain"
	"techdocs/internal/domain/models"
	"techdocs/internal/domain/repositories"
)

const documentColumns = "id, uuid, title, content, category, tags, created_at, updated_at"

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   pool,
		logger: logger,
	}
}

// buildListQuery assembles the filtered list query. Category filters by
// equality; search matches title or content as a case-insensitive
// substring. Results are ordered by updated_at descending.
func buildListQuery(filter repositories.ListFilter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM documents", documentColumns)
	var args []any

	where := ""
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where = fmt.Sprintf(" WHERE category = $%d", len(args))
	}

	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		cond := fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args))
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	return query + where + " ORDER BY updated_at DESC", args
}

// List retrieves documents matching the filter
func (r *PostgresDocumentRepository) List(ctx context.Context, filter repositories.ListFilter) ([]models.Document, error) {
	query, args := buildListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "list documents", Err: err}
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UUID,
			&doc.Title,
			&doc.Content,
			&doc.Category,
			&doc.Tags,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, &domain.StorageError{Op: "scan document", Err: err}
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list documents", Err: err}
	}

	return docs, nil
}

// GetByUUID retrieves a document by its external identifier
func (r *PostgresDocumentRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM documents WHERE uuid = $1", documentColumns)

	var doc models.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.UUID,
		&doc.Title,
		&doc.Content,
		&doc.Category,
		&doc.Tags,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, &domain.StorageError{Op: "get document", Err: err}
	}

	return &doc, nil
}

// Create inserts a new document and assigns its internal id
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (uuid, title, content, category, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		doc.UUID,
		doc.Title,
		doc.Content,
		doc.Category,
		doc.Tags,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID)

	if err != nil {
		if IsPgDuplicateError(err) {
			// uuid collision, effectively unreachable with v4 identifiers
			return &domain.StorageError{Op: "create document: duplicate uuid", Err: err}
		}
		return &domain.StorageError{Op: "create document", Err: err}
	}

	return nil
}

// Update replaces the full record identified by its internal id
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET title = $1, content = $2, category = $3, tags = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.pool.Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.Category,
		doc.Tags,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		return &domain.StorageError{Op: "update document", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document id %d: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the document with the given internal id
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return &domain.StorageError{Op: "delete document", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document id %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DistinctCategories returns the categories currently in use
func (r *PostgresDocumentRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT category FROM documents")
	if err != nil {
		return nil, &domain.StorageError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, &domain.StorageError{Op: "scan category", Err: err}
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list categories", Err: err}
	}

	return categories, nil
}
