package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/domain/model"
)

// MaterialServiceOptions groups dependencies for MaterialService.
type MaterialServiceOptions struct {
	MaterialRepo  core.MaterialRepository
	AccountRepo   core.AccountRepository
	Notifications core.NotificationRepository
	Logger        *slog.Logger
}

// MaterialService orchestrates the material approval workflow: uploads,
// client review decisions, and the comment thread. Review decisions notify
// the client account; notification failures are logged, not surfaced.
type MaterialService struct {
	materials core.MaterialRepository
	accounts  core.AccountRepository
	notes     core.NotificationRepository
	logger    *slog.Logger
}

// NewMaterialService constructs a new MaterialService.
func NewMaterialService(opts MaterialServiceOptions) *MaterialService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MaterialService{
		materials: opts.MaterialRepo,
		accounts:  opts.AccountRepo,
		notes:     opts.Notifications,
		logger:    logger.With("component", "material_service"),
	}
}

// Create creates a material pending client review.
func (s *MaterialService) Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error) {
	if req != nil && s.accounts != nil {
		if _, err := s.accounts.GetByID(ctx, req.ClientID); err != nil {
			return nil, fmt.Errorf("resolve client: %w", err)
		}
	}
	material, err := s.materials.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, material.ClientID, &model.CreateNotificationRequest{
		AccountID: material.ClientID,
		Title:     "Novo material para aprovação",
		Message:   fmt.Sprintf("O material %q aguarda sua revisão.", material.Title),
		Type:      model.NotifyInfo,
	})
	return material, nil
}

// GetByID retrieves a material by ID.
func (s *MaterialService) GetByID(ctx context.Context, id string) (*model.Material, error) {
	return s.materials.GetByID(ctx, id)
}

// List returns materials using optional filters.
func (s *MaterialService) List(ctx context.Context, opts model.MaterialListOptions) ([]*model.Material, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.materials.List(ctx, opts)
}

// CountPendingApproval counts materials awaiting review, optionally scoped to one client.
func (s *MaterialService) CountPendingApproval(ctx context.Context, clientID *string) (int, error) {
	return s.materials.CountPendingApproval(ctx, clientID)
}

// Update updates a material's content fields.
func (s *MaterialService) Update(ctx context.Context, id string, req model.UpdateMaterialRequest) (*model.Material, error) {
	return s.materials.Update(ctx, id, req)
}

// ReviewInput groups parameters for a client review decision.
type ReviewInput struct {
	MaterialID string
	Reviewer   ReviewerInfo
	Request    model.ReviewMaterialRequest
}

// ReviewerInfo identifies the account recording a review decision.
type ReviewerInfo struct {
	AccountID string
	Name      string
}

// Review records a client approval decision. Repeating the current decision
// is a no-op so double-submits stay idempotent. An optional comment lands in
// the material's thread alongside the decision.
func (s *MaterialService) Review(ctx context.Context, in ReviewInput) (*model.Material, error) {
	if err := in.Request.Validate(); err != nil {
		return nil, err
	}

	current, err := s.materials.GetByID(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if current.ApprovalStatus == in.Request.Decision {
		return current, nil
	}

	material, err := s.materials.SetApprovalStatus(ctx, in.MaterialID, in.Request.Decision)
	if err != nil {
		return nil, err
	}

	if in.Request.Comment != nil {
		if _, commentErr := s.materials.AddComment(ctx, core.AddCommentParams{
			MaterialID: in.MaterialID,
			AuthorID:   in.Reviewer.AccountID,
			AuthorName: in.Reviewer.Name,
			Message:    *in.Request.Comment,
		}); commentErr != nil {
			s.logger.WarnContext(ctx, "failed to attach review comment",
				"material_id", in.MaterialID, "err", commentErr)
		}
	}

	s.notify(ctx, material.ClientID, reviewNotification(material))
	return material, nil
}

// AddComment appends a note to a material's review thread.
func (s *MaterialService) AddComment(
	ctx context.Context,
	params core.AddCommentParams,
) (*model.Comment, error) {
	req := model.AddCommentRequest{Message: params.Message}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.materials.GetByID(ctx, params.MaterialID); err != nil {
		return nil, err
	}
	return s.materials.AddComment(ctx, params)
}

// ListComments returns a material's comment thread, oldest first.
func (s *MaterialService) ListComments(ctx context.Context, materialID string) ([]*model.Comment, error) {
	return s.materials.ListComments(ctx, materialID)
}

// Delete deletes a material with its comment thread.
func (s *MaterialService) Delete(ctx context.Context, id string) (bool, error) {
	return s.materials.Delete(ctx, id)
}

func (s *MaterialService) notify(ctx context.Context, accountID string, req *model.CreateNotificationRequest) {
	if s.notes == nil || accountID == "" {
		return
	}
	if _, err := s.notes.Create(ctx, req); err != nil {
		s.logger.WarnContext(ctx, "failed to create notification",
			"account_id", accountID, "err", err)
	}
}

func reviewNotification(material *model.Material) *model.CreateNotificationRequest {
	req := &model.CreateNotificationRequest{AccountID: material.ClientID}
	switch material.ApprovalStatus {
	case model.ApprovalApproved:
		req.Title = "Material aprovado"
		req.Message = fmt.Sprintf("O material %q foi aprovado.", material.Title)
		req.Type = model.NotifySuccess
	case model.ApprovalRejected:
		req.Title = "Material rejeitado"
		req.Message = fmt.Sprintf("O material %q foi rejeitado.", material.Title)
		req.Type = model.NotifyError
	case model.ApprovalRevision:
		req.Title = "Ajustes solicitados"
		req.Message = fmt.Sprintf("O material %q precisa de ajustes.", material.Title)
		req.Type = model.NotifyWarning
	default:
		req.Title = "Material atualizado"
		req.Message = fmt.Sprintf("O material %q foi atualizado.", material.Title)
		req.Type = model.NotifyInfo
	}
	return req
}
