package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"techdocs/internal/domain"
	"techdocs/internal/domain/models"
	"techdocs/internal/domain/repositories"
	"techdocs/internal/domain/services"
	"techdocs/internal/httputil"
)

// mockRepo is a test implementation of DocumentRepository backed by
// overridable function fields.
type mockRepo struct {
	listFn       func(ctx context.Context, filter repositories.ListFilter) ([]models.Document, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*models.Document, error)
	createFn     func(ctx context.Context, doc *models.Document) error
	updateFn     func(ctx context.Context, doc *models.Document) error
	deleteFn     func(ctx context.Context, id int32) error
	categoriesFn func(ctx context.Context) ([]string, error)
}

func (m *mockRepo) List(ctx context.Context, filter repositories.ListFilter) ([]models.Document, error) {
	return m.listFn(ctx, filter)
}

func (m *mockRepo) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) Create(ctx context.Context, doc *models.Document) error {
	return m.createFn(ctx, doc)
}

func (m *mockRepo) Update(ctx context.Context, doc *models.Document) error {
	return m.updateFn(ctx, doc)
}

func (m *mockRepo) Delete(ctx context.Context, id int32) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return m.categoriesFn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedDocument() *models.Document {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return &models.Document{
		ID:        3,
		UUID:      uuid.MustParse("6f1b0b3a-2c14-4f5e-9a39-8f2f0d9f4b11"),
		Title:     "Runbook",
		Content:   "Restart the worker pool.",
		Category:  "ops",
		Tags:      models.EncodeTags([]string{"a", "b"}),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func present(s string) httputil.OptionalString {
	return httputil.OptionalString{Present: true, Value: &s}
}

func presentTags(tags []string) httputil.OptionalStrings {
	return httputil.OptionalStrings{Present: true, Value: &tags}
}

func TestListDocumentsFilters(t *testing.T) {
	tests := []struct {
		name         string
		category     string
		search       string
		wantCategory *string
		wantSearch   *string
	}{
		{name: "no filters", category: "", search: ""},
		{name: "all sentinel means unfiltered", category: "all", search: ""},
		{name: "specific category", category: "guides", search: "", wantCategory: strPtr("guides")},
		{name: "search only", category: "", search: "foo", wantSearch: strPtr("foo")},
		{name: "both", category: "ops", search: "deploy", wantCategory: strPtr("ops"), wantSearch: strPtr("deploy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotFilter repositories.ListFilter
			repo := &mockRepo{
				listFn: func(_ context.Context, filter repositories.ListFilter) ([]models.Document, error) {
					gotFilter = filter
					return []models.Document{*storedDocument()}, nil
				},
			}
			svc := NewDocumentService(repo, testLogger())

			docs, err := svc.ListDocuments(context.Background(), tt.category, tt.search)
			if err != nil {
				t.Fatalf("ListDocuments: %v", err)
			}

			if !ptrEqual(gotFilter.Category, tt.wantCategory) {
				t.Errorf("filter.Category = %v, want %v", deref(gotFilter.Category), deref(tt.wantCategory))
			}
			if !ptrEqual(gotFilter.Search, tt.wantSearch) {
				t.Errorf("filter.Search = %v, want %v", deref(gotFilter.Search), deref(tt.wantSearch))
			}
			if len(docs) != 1 {
				t.Fatalf("len(docs) = %d, want 1", len(docs))
			}
			if !reflect.DeepEqual(docs[0].Tags, []string{"a", "b"}) {
				t.Errorf("shaped tags = %v, want [a b]", docs[0].Tags)
			}
		})
	}
}

func TestListDocumentsStorageError(t *testing.T) {
	repo := &mockRepo{
		listFn: func(context.Context, repositories.ListFilter) ([]models.Document, error) {
			return nil, &domain.StorageError{Op: "list documents", Err: errors.New("connection reset")}
		},
	}
	svc := NewDocumentService(repo, testLogger())

	_, err := svc.ListDocuments(context.Background(), "", "")
	if !errors.Is(err, domain.ErrStorage) {
		t.Errorf("err = %v, want storage failure", err)
	}
}

func TestGetDocument(t *testing.T) {
	stored := storedDocument()
	repo := &mockRepo{
		getFn: func(_ context.Context, id uuid.UUID) (*models.Document, error) {
			if id != stored.UUID {
				t.Errorf("looked up %s, want %s", id, stored.UUID)
			}
			doc := *stored
			return &doc, nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	resp, err := svc.GetDocument(context.Background(), stored.UUID.String())
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if resp.UUID != stored.UUID || resp.Title != stored.Title {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewDocumentService(repo, testLogger())

	_, err := svc.GetDocument(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestInvalidExternalID(t *testing.T) {
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			t.Fatal("store must not be reached for a malformed identifier")
			return nil, nil
		},
	}
	svc := NewDocumentService(repo, testLogger())
	ctx := context.Background()

	checks := []struct {
		name string
		call func() error
	}{
		{"get", func() error { _, err := svc.GetDocument(ctx, "not-a-uuid"); return err }},
		{"update", func() error {
			_, err := svc.UpdateDocument(ctx, "not-a-uuid", &services.UpdateDocumentRequest{})
			return err
		}},
		{"delete", func() error { return svc.DeleteDocument(ctx, "not-a-uuid") }},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			err := c.call()
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if err.Error() != "Invalid UUID format" {
				t.Errorf("message = %q, want \"Invalid UUID format\"", err.Error())
			}
		})
	}
}

func TestCreateDocument(t *testing.T) {
	var stored *models.Document
	repo := &mockRepo{
		createFn: func(_ context.Context, doc *models.Document) error {
			doc.ID = 42
			stored = doc
			return nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	before := time.Now().UTC()
	resp, err := svc.CreateDocument(context.Background(), &services.CreateDocumentRequest{
		Title:    "Deploy Guide",
		Content:  "Run the script.",
		Category: "ops",
		Tags:     []string{"a", "b", "c"},
	})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	if stored.UUID == uuid.Nil {
		t.Error("external id was not assigned")
	}
	if stored.CreatedAt.Before(before) || !stored.CreatedAt.Equal(stored.UpdatedAt) {
		t.Errorf("timestamps: created=%v updated=%v", stored.CreatedAt, stored.UpdatedAt)
	}
	if stored.CreatedAt.Location() != time.UTC {
		t.Error("created_at is not UTC")
	}
	if string(stored.Tags) != `["a","b","c"]` {
		t.Errorf("tags blob = %s", stored.Tags)
	}

	if resp.ID != 42 || resp.UUID != stored.UUID {
		t.Errorf("resp identifiers: id=%d uuid=%s", resp.ID, resp.UUID)
	}
	if !reflect.DeepEqual(resp.Tags, []string{"a", "b", "c"}) {
		t.Errorf("resp tags = %v, want original order", resp.Tags)
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		wantMsg string
	}{
		{name: "empty title", title: "", content: "body", wantMsg: "Title cannot be empty"},
		{name: "whitespace title", title: "   \t", content: "body", wantMsg: "Title cannot be empty"},
		{name: "empty content", title: "ok", content: "", wantMsg: "Content cannot be empty"},
		{name: "whitespace content", title: "ok", content: " \n ", wantMsg: "Content cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				createFn: func(context.Context, *models.Document) error {
					t.Fatal("store must not be reached for invalid input")
					return nil
				},
			}
			svc := NewDocumentService(repo, testLogger())

			_, err := svc.CreateDocument(context.Background(), &services.CreateDocumentRequest{
				Title:   tt.title,
				Content: tt.content,
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCreateDocumentAcceptsSingleCharacter(t *testing.T) {
	repo := &mockRepo{
		createFn: func(_ context.Context, doc *models.Document) error {
			doc.ID = 1
			return nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	if _, err := svc.CreateDocument(context.Background(), &services.CreateDocumentRequest{
		Title:   "x",
		Content: "y",
	}); err != nil {
		t.Errorf("single non-whitespace characters must be accepted: %v", err)
	}
}

func TestUpdateDocumentMerge(t *testing.T) {
	stored := storedDocument()

	tests := []struct {
		name  string
		req   services.UpdateDocumentRequest
		check func(t *testing.T, doc *models.Document)
	}{
		{
			name: "no fields supplied leaves record untouched",
			req:  services.UpdateDocumentRequest{},
			check: func(t *testing.T, doc *models.Document) {
				if doc.Title != stored.Title || doc.Content != stored.Content || doc.Category != stored.Category {
					t.Error("scalar fields changed on empty update")
				}
				if string(doc.Tags) != string(stored.Tags) {
					t.Error("tags changed on empty update")
				}
			},
		},
		{
			name: "title replaced, rest untouched",
			req:  services.UpdateDocumentRequest{Title: present("New Title")},
			check: func(t *testing.T, doc *models.Document) {
				if doc.Title != "New Title" {
					t.Errorf("title = %q", doc.Title)
				}
				if doc.Content != stored.Content {
					t.Error("content changed")
				}
			},
		},
		{
			name: "tags replaced wholesale",
			req:  services.UpdateDocumentRequest{Tags: presentTags([]string{"x"})},
			check: func(t *testing.T, doc *models.Document) {
				tags, _ := models.DecodeTags(doc.Tags)
				if !reflect.DeepEqual(tags, []string{"x"}) {
					t.Errorf("tags = %v, want [x] (wholesale replacement)", tags)
				}
			},
		},
		{
			name: "empty tag list clears tags",
			req:  services.UpdateDocumentRequest{Tags: presentTags([]string{})},
			check: func(t *testing.T, doc *models.Document) {
				if string(doc.Tags) != `[]` {
					t.Errorf("tags blob = %s, want []", doc.Tags)
				}
			},
		},
		{
			name: "category replaced unconditionally",
			req:  services.UpdateDocumentRequest{Category: present("")},
			check: func(t *testing.T, doc *models.Document) {
				if doc.Category != "" {
					t.Errorf("category = %q, want empty (no emptiness constraint)", doc.Category)
				}
			},
		},
		{
			name: "null field is left untouched",
			req:  services.UpdateDocumentRequest{Title: httputil.OptionalString{Present: true, Value: nil}},
			check: func(t *testing.T, doc *models.Document) {
				if doc.Title != stored.Title {
					t.Error("null title must not change the stored value")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated *models.Document
			repo := &mockRepo{
				getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
					doc := *stored
					return &doc, nil
				},
				updateFn: func(_ context.Context, doc *models.Document) error {
					updated = doc
					return nil
				},
			}
			svc := NewDocumentService(repo, testLogger())

			before := time.Now().UTC()
			if _, err := svc.UpdateDocument(context.Background(), stored.UUID.String(), &tt.req); err != nil {
				t.Fatalf("UpdateDocument: %v", err)
			}

			if updated.ID != stored.ID || updated.UUID != stored.UUID {
				t.Error("identifiers must be immutable")
			}
			if !updated.CreatedAt.Equal(stored.CreatedAt) {
				t.Error("created_at must never change")
			}
			if updated.UpdatedAt.Before(before) {
				t.Error("updated_at was not refreshed")
			}
			if updated.UpdatedAt.Before(updated.CreatedAt) {
				t.Error("updated_at must not precede created_at")
			}

			tt.check(t, updated)
		})
	}
}

func TestUpdateDocumentValidation(t *testing.T) {
	stored := storedDocument()
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			doc := *stored
			return &doc, nil
		},
		updateFn: func(context.Context, *models.Document) error {
			t.Fatal("store must not be written for invalid input")
			return nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	tests := []struct {
		name    string
		req     services.UpdateDocumentRequest
		wantMsg string
	}{
		{name: "blank title", req: services.UpdateDocumentRequest{Title: present("  ")}, wantMsg: "Title cannot be empty"},
		{name: "blank content", req: services.UpdateDocumentRequest{Content: present("")}, wantMsg: "Content cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateDocument(context.Background(), stored.UUID.String(), &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUpdateDocumentNotFound(t *testing.T) {
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewDocumentService(repo, testLogger())

	_, err := svc.UpdateDocument(context.Background(), uuid.NewString(), &services.UpdateDocumentRequest{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	stored := storedDocument()
	var deletedID int32
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			doc := *stored
			return &doc, nil
		},
		deleteFn: func(_ context.Context, id int32) error {
			deletedID = id
			return nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	if err := svc.DeleteDocument(context.Background(), stored.UUID.String()); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if deletedID != stored.ID {
		t.Errorf("deleted internal id %d, want %d", deletedID, stored.ID)
	}
}

func TestDeleteDocumentNotFound(t *testing.T) {
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewDocumentService(repo, testLogger())

	err := svc.DeleteDocument(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestListCategories(t *testing.T) {
	repo := &mockRepo{
		categoriesFn: func(context.Context) ([]string, error) {
			return []string{"guides", "ops"}, nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	categories, err := svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !reflect.DeepEqual(categories, []string{"guides", "ops"}) {
		t.Errorf("categories = %v", categories)
	}
}

func TestShapeMalformedTags(t *testing.T) {
	stored := storedDocument()
	stored.Tags = json.RawMessage(`"corrupt"`)
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Document, error) {
			doc := *stored
			return &doc, nil
		},
	}
	svc := NewDocumentService(repo, testLogger())

	resp, err := svc.GetDocument(context.Background(), stored.UUID.String())
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if !reflect.DeepEqual(resp.Tags, []string{}) {
		t.Errorf("tags = %v, want empty slice for malformed blob", resp.Tags)
	}
}

func ptrEqual(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func strPtr(s string) *string { return &s }
