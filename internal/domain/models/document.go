package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the persisted shape of a document. Tags are stored as a
// JSONB blob rather than a join table, so the raw encoding travels with
// the record and is only decoded at the response boundary.
type Document struct {
	ID        int32           `db:"id"`
	UUID      uuid.UUID       `db:"uuid"`
	Title     string          `db:"title"`
	Content   string          `db:"content"`
	Category  string          `db:"category"`
	Tags      json.RawMessage `db:"tags"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// DocumentResponse is the external wire representation of a document.
// It never exposes the storage encoding of tags.
type DocumentResponse struct {
	ID        int32     `json:"id"`
	UUID      uuid.UUID `json:"uuid"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EncodeTags converts a tag sequence into the JSONB storage blob,
// preserving order. A nil slice encodes as an empty JSON array.
func EncodeTags(tags []string) json.RawMessage {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		// a []string cannot fail to marshal
		return json.RawMessage("[]")
	}
	return raw
}

// DecodeTags converts the storage blob back into an ordered tag
// sequence. Any blob that is not an array of strings decodes to an
// empty slice instead of failing; ok reports whether the blob was
// well-formed so callers can surface a decode warning.
func DecodeTags(raw json.RawMessage) (tags []string, ok bool) {
	if len(raw) == 0 {
		return []string{}, true
	}

	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return []string{}, false
	}

	tags = make([]string, 0, len(values))
	ok = true
	for _, v := range values {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			// skip non-string elements, keep the rest
			ok = false
			continue
		}
		tags = append(tags, s)
	}
	return tags, ok
}

// Response converts a persisted document into its wire representation.
func (d *Document) Response() *DocumentResponse {
	tags, _ := DecodeTags(d.Tags)
	return &DocumentResponse{
		ID:        d.ID,
		UUID:      d.UUID,
		Title:     d.Title,
		Content:   d.Content,
		Category:  d.Category,
		Tags:      tags,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
