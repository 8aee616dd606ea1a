package services

import (
	"context"

	"techdocs/internal/domain/models"
	"techdocs/internal/httputil"
)

// DocumentService handles document business logic
type DocumentService interface {
	// ListDocuments retrieves documents, optionally filtered by exact
	// category ("all" and "" mean unfiltered) and by a case-insensitive
	// substring search over title and content.
	ListDocuments(ctx context.Context, category, search string) ([]models.DocumentResponse, error)

	// GetDocument retrieves a document by its external identifier.
	GetDocument(ctx context.Context, id string) (*models.DocumentResponse, error)

	// CreateDocument creates a new document, assigning its external
	// identifier and timestamps.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.DocumentResponse, error)

	// UpdateDocument merges the supplied fields onto the existing
	// record. updated_at is refreshed even when no field is supplied.
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*models.DocumentResponse, error)

	// DeleteDocument removes a document by its external identifier.
	DeleteDocument(ctx context.Context, id string) error

	// ListCategories returns the distinct categories currently in use.
	ListCategories(ctx context.Context) ([]string, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// UpdateDocumentRequest represents a partial document update. Each
// field tracks its own presence so an omitted field is left untouched
// while a supplied one replaces the stored value (tags wholesale).
type UpdateDocumentRequest struct {
	Title    httputil.OptionalString  `json:"title"`
	Content  httputil.OptionalString  `json:"content"`
	Category httputil.OptionalString  `json:"category"`
	Tags     httputil.OptionalStrings `json:"tags"`
}
