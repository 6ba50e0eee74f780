//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxDocumentNameLen = 255

// DocumentCategory classifies entries in the document library.
type DocumentCategory string

const (
	DocCategoryBriefing DocumentCategory = "briefing"
	DocCategoryContract DocumentCategory = "contract"
	DocCategoryReport   DocumentCategory = "report"
	DocCategoryGeneral  DocumentCategory = "general"
)

// Valid reports whether the document category is supported.
func (c DocumentCategory) Valid() bool {
	switch c {
	case DocCategoryBriefing, DocCategoryContract, DocCategoryReport, DocCategoryGeneral:
		return true
	default:
		return false
	}
}

// ParseDocumentCategory normalizes a category string and reports whether it is supported.
func ParseDocumentCategory(value string) (DocumentCategory, bool) {
	c := DocumentCategory(strings.ToLower(strings.TrimSpace(value)))
	if c.Valid() {
		return c, true
	}
	return "", false
}

// Document is a library entry shared with a client. The portal stores file
// metadata and a URL; blob storage is an external concern.
type Document struct {
	ID        string           `json:"id"         db:"id"`
	ClientID  string           `json:"client_id"  db:"client_id"`
	Name      string           `json:"name"       db:"name"`
	FileURL   string           `json:"file_url"   db:"file_url"`
	FileType  string           `json:"file_type"  db:"file_type"`
	Category  DocumentCategory `json:"category"   db:"category"`
	SizeBytes int64            `json:"size_bytes" db:"size_bytes"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// DocumentListOptions controls paging and filtering for listing documents.
type DocumentListOptions struct {
	Limit    int
	Offset   int
	ClientID *string
	Category *DocumentCategory
}

// CreateDocumentRequest represents parameters to create a Document.
type CreateDocumentRequest struct {
	ClientID  string           `json:"client_id"`
	Name      string           `json:"name"`
	FileURL   string           `json:"file_url"`
	FileType  string           `json:"file_type"`
	Category  DocumentCategory `json:"category,omitempty"`
	SizeBytes int64            `json:"size_bytes"`
}

// UpdateDocumentRequest represents parameters to update a Document's
// metadata. Documents stay with the client they were shared with.
type UpdateDocumentRequest struct {
	Name      *string           `json:"name,omitempty"`
	FileURL   *string           `json:"file_url,omitempty"`
	FileType  *string           `json:"file_type,omitempty"`
	Category  *DocumentCategory `json:"category,omitempty"`
	SizeBytes *int64            `json:"size_bytes,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateDocumentRequest.
func (r *UpdateDocumentRequest) HasUpdates() bool {
	return r.Name != nil || r.FileURL != nil || r.FileType != nil ||
		r.Category != nil || r.SizeBytes != nil
}

// Validate validates UpdateDocumentRequest.
func (r *UpdateDocumentRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxDocumentNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.FileURL != nil && strings.TrimSpace(*r.FileURL) == "" {
		return errors.New("file_url cannot be empty")
	}
	if r.FileType != nil && strings.TrimSpace(*r.FileType) == "" {
		return errors.New("file_type cannot be empty")
	}
	if r.Category != nil && !r.Category.Valid() {
		return errors.New("invalid category")
	}
	if r.SizeBytes != nil && *r.SizeBytes < 0 {
		return errors.New("size_bytes cannot be negative")
	}
	return nil
}

// Validate validates CreateDocumentRequest and normalizes defaults.
func (r *CreateDocumentRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" {
		return errors.New("client_id is required")
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxDocumentNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.FileURL) == "" {
		return errors.New("file_url is required")
	}
	if strings.TrimSpace(r.FileType) == "" {
		return errors.New("file_type is required")
	}
	if r.SizeBytes < 0 {
		return errors.New("size_bytes cannot be negative")
	}
	if r.Category == "" {
		r.Category = DocCategoryGeneral
	}
	if !r.Category.Valid() {
		return errors.New("invalid category")
	}
	return nil
}
