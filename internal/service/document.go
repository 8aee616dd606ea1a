package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"techdocs/internal/domain"
	"techdocs/internal/domain/models"
	"techdocs/internal/domain/repositories"
	"techdocs/internal/domain/services"
	"techdocs/internal/metrics"
)

// categoryAll is the sentinel category value meaning "no filter".
const categoryAll = "all"

// documentService implements the DocumentService interface
type documentService struct {
	repo   repositories.DocumentRepository
	logger *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(repo repositories.DocumentRepository, logger *slog.Logger) services.DocumentService {
	return &documentService{
		repo:   repo,
		logger: logger,
	}
}

// ListDocuments retrieves documents with optional category and search filters
func (s *documentService) ListDocuments(ctx context.Context, category, search string) ([]models.DocumentResponse, error) {
	var filter repositories.ListFilter

	if category != "" && category != categoryAll {
		filter.Category = &category
	}
	if search != "" {
		filter.Search = &search
	}

	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]models.DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, *s.shape(&docs[i]))
	}

	return responses, nil
}

// GetDocument retrieves a document by its external identifier
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.DocumentResponse, error) {
	externalID, err := parseExternalID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.GetByUUID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	return s.shape(doc), nil
}

// CreateDocument creates a new document
func (s *documentService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.DocumentResponse, error) {
	if err := validateNotBlank("Title", req.Title); err != nil {
		return nil, err
	}
	if err := validateNotBlank("Content", req.Content); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &models.Document{
		UUID:      uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      models.EncodeTags(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"uuid", doc.UUID,
		"category", doc.Category,
	)

	return s.shape(doc), nil
}

// UpdateDocument merges the supplied fields onto the existing record.
// updated_at is refreshed even when no field was supplied.
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *services.UpdateDocumentRequest) (*models.DocumentResponse, error) {
	externalID, err := parseExternalID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.GetByUUID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if req.Title.Present && req.Title.Value != nil {
		if err := validateNotBlank("Title", *req.Title.Value); err != nil {
			return nil, err
		}
		doc.Title = *req.Title.Value
	}

	if req.Content.Present && req.Content.Value != nil {
		if err := validateNotBlank("Content", *req.Content.Value); err != nil {
			return nil, err
		}
		doc.Content = *req.Content.Value
	}

	if req.Category.Present && req.Category.Value != nil {
		doc.Category = *req.Category.Value
	}

	if req.Tags.Present && req.Tags.Value != nil {
		// full sequence replacement, no element-wise merge
		doc.Tags = models.EncodeTags(*req.Tags.Value)
	}

	doc.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"uuid", doc.UUID,
	)

	return s.shape(doc), nil
}

// DeleteDocument removes a document by its external identifier
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	externalID, err := parseExternalID(id)
	if err != nil {
		return err
	}

	doc, err := s.repo.GetByUUID(ctx, externalID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	s.logger.Info("document deleted",
		"id", doc.ID,
		"uuid", doc.UUID,
	)

	return nil
}

// ListCategories returns the distinct categories currently in use
func (s *documentService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCategories(ctx)
}

// shape converts a stored document into its wire representation,
// surfacing a decode warning when the tags blob is malformed.
func (s *documentService) shape(doc *models.Document) *models.DocumentResponse {
	if _, ok := models.DecodeTags(doc.Tags); !ok {
		metrics.TagDecodeFailures.Inc()
		s.logger.Warn("malformed tags blob decoded defensively",
			"id", doc.ID,
			"uuid", doc.UUID,
		)
	}
	return doc.Response()
}

// parseExternalID parses a caller-supplied document identifier.
func parseExternalID(id string) (uuid.UUID, error) {
	externalID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Message: "Invalid UUID format"}
	}
	return externalID, nil
}

// validateNotBlank rejects values that are empty after trimming.
func validateNotBlank(field, value string) error {
	err := validation.Validate(strings.TrimSpace(value),
		validation.Required.Error(field+" cannot be empty"))
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
