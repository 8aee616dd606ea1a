package repositories

import (
	"context"

	"github.com/google/uuid"

	"techdocs/internal/domain/models"
)

// ListFilter contains optional criteria for listing documents.
// Nil fields apply no restriction.
type ListFilter struct {
	// Category restricts results to an exact category match.
	Category *string

	// Search restricts results to documents whose title or content
	// contains the value as a case-insensitive substring.
	Search *string
}

// DocumentRepository defines data access operations for documents.
// Every method surfaces backend failures as *domain.StorageError;
// lookups that match nothing return domain.ErrNotFound.
type DocumentRepository interface {
	// List retrieves documents matching the filter, ordered by
	// updated_at descending.
	List(ctx context.Context, filter ListFilter) ([]models.Document, error)

	// GetByUUID retrieves a document by its external identifier.
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.Document, error)

	// Create inserts a new document and assigns its internal id.
	Create(ctx context.Context, doc *models.Document) error

	// Update replaces the full record identified by its internal id.
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes the document with the given internal id.
	Delete(ctx context.Context, id int32) error

	// DistinctCategories returns the categories currently in use,
	// duplicates removed by the store.
	DistinctCategories(ctx context.Context) ([]string, error)
}
