package service

import (
	"context"
	"fmt"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
)

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	DocumentRepo  core.DocumentRepository
	Notifications core.NotificationRepository
}

// DocumentService orchestrates the shared document library.
type DocumentService struct {
	documents core.DocumentRepository
	notes     core.NotificationRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	return &DocumentService{documents: opts.DocumentRepo, notes: opts.Notifications}
}

// Create creates a library entry and notifies the client it was shared with.
func (s *DocumentService) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	doc, err := s.documents.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.notes != nil {
		// Notification failure must not fail the upload.
		_, _ = s.notes.Create(ctx, &model.CreateNotificationRequest{
			AccountID: doc.ClientID,
			Title:     "Novo documento disponível",
			Message:   fmt.Sprintf("O documento %q foi adicionado à sua biblioteca.", doc.Name),
			Type:      model.NotifyInfo,
		})
	}
	return doc, nil
}

// GetByID retrieves a document by ID.
func (s *DocumentService) GetByID(ctx context.Context, id string) (*model.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// GetForClient retrieves a document, enforcing client ownership.
func (s *DocumentService) GetForClient(ctx context.Context, id, clientID string) (*model.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.ClientID != clientID {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotOwned)
	}
	return doc, nil
}

// List returns library entries using optional filters.
func (s *DocumentService) List(ctx context.Context, opts model.DocumentListOptions) ([]*model.Document, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.documents.List(ctx, opts)
}

// Update updates a library entry's metadata.
func (s *DocumentService) Update(ctx context.Context, id string, req model.UpdateDocumentRequest) (*model.Document, error) {
	return s.documents.Update(ctx, id, req)
}

// Delete deletes a library entry.
func (s *DocumentService) Delete(ctx context.Context, id string) (bool, error) {
	return s.documents.Delete(ctx, id)
}
