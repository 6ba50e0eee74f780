package core

import (
	"context"

	"github.com/clientus/portal/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context, opts model.AccountListOptions) ([]*model.Account, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Update(ctx context.Context, id string, req model.UpdateAccountRequest) (*model.Account, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MaterialRepository defines the interface for material data operations.
type MaterialRepository interface {
	Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error)
	GetByID(ctx context.Context, id string) (*model.Material, error)
	List(ctx context.Context, opts model.MaterialListOptions) ([]*model.Material, error)
	CountPendingApproval(ctx context.Context, clientID *string) (int, error)
	Update(ctx context.Context, id string, req model.UpdateMaterialRequest) (*model.Material, error)
	SetApprovalStatus(ctx context.Context, id string, status model.ApprovalStatus) (*model.Material, error)
	Delete(ctx context.Context, id string) (bool, error)

	AddComment(ctx context.Context, params AddCommentParams) (*model.Comment, error)
	ListComments(ctx context.Context, materialID string) ([]*model.Comment, error)
}

// AddCommentParams groups parameters for MaterialRepository.AddComment to keep param count ≤3.
type AddCommentParams struct {
	MaterialID string
	AuthorID   string
	AuthorName string
	Message    string
}

// CampaignRepository defines the interface for campaign data operations.
type CampaignRepository interface {
	Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	List(ctx context.Context, opts model.CampaignListOptions) ([]*model.Campaign, error)
	CountByStatus(ctx context.Context, clientID *string) (map[string]int, error)
	Update(ctx context.Context, id string, req model.UpdateCampaignRequest) (*model.Campaign, error)
	UpdateMetrics(ctx context.Context, id string, metrics model.CampaignMetrics) (*model.Campaign, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DocumentRepository defines the interface for document library data operations.
type DocumentRepository interface {
	Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error)
	GetByID(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, opts model.DocumentListOptions) ([]*model.Document, error)
	Update(ctx context.Context, id string, req model.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NotificationRepository defines the interface for notification data operations.
type NotificationRepository interface {
	Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, params MarkReadParams) (bool, error)
	MarkAllRead(ctx context.Context, accountID string) (int, error)
	CountUnread(ctx context.Context, accountID string) (int, error)
}

// MarkReadParams groups parameters for NotificationRepository.MarkRead.
// AccountID scopes the update so one account cannot mark another's
// notification as read.
type MarkReadParams struct {
	ID        string
	AccountID string
}
