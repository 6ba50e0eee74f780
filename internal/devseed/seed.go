// Package devseed populates a development database with the demo dataset.
// The accounts mirror the demoauth table so demo logins resolve to real
// rows, plus sample materials, campaigns, documents, and notifications
// for each client. Seeding is idempotent per account: existing emails are
// left untouched and their sample content is not recreated.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clientus/portal/internal/adapters/demoauth"
	"github.com/clientus/portal/internal/core"
	"github.com/clientus/portal/internal/data"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/domain/model"
)

// Seeder writes the demo dataset through the data layer so every row
// passes the same validation as production writes.
type Seeder struct {
	Accounts      *data.AccountRepo
	Materials     *data.MaterialRepo
	Campaigns     *data.CampaignRepo
	Documents     *data.DocumentRepo
	Notifications *data.NotificationRepo
	Logger        *slog.Logger
}

// New creates a Seeder over the given database handle.
func New(db *sql.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		Accounts:      data.NewAccountRepo(db),
		Materials:     data.NewMaterialRepo(db),
		Campaigns:     data.NewCampaignRepo(db),
		Documents:     data.NewDocumentRepo(db),
		Notifications: data.NewNotificationRepo(db),
		Logger:        logger,
	}
}

// Result summarizes what a seeding run created.
type Result struct {
	Accounts      int
	Materials     int
	Campaigns     int
	Documents     int
	Notifications int
}

// Run seeds the demo dataset. Accounts whose email already exists are
// skipped entirely, so re-running against a seeded database is a no-op.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	for _, demo := range demoauth.DefaultAccounts() {
		existing, err := s.Accounts.GetByEmail(ctx, demo.Email)
		if err != nil && !errors.Is(err, data.ErrAccountNotFound) {
			return res, fmt.Errorf("look up %s: %w", demo.Email, err)
		}
		if existing != nil {
			s.Logger.Info("account already seeded, skipping", "email", demo.Email)
			continue
		}

		account, err := s.Accounts.Create(ctx, &model.CreateAccountRequest{
			Name:           demo.Name,
			Email:          demo.Email,
			Role:           demo.Role,
			Status:         demo.Status,
			ContactPerson:  optional(demo.ContactPerson),
			Company:        optional(demo.Company),
			ProjectType:    optional(demo.ProjectType),
			VisibleMetrics: demo.VisibleMetrics,
		})
		if err != nil {
			return res, fmt.Errorf("create account %s: %w", demo.Email, err)
		}
		res.Accounts++
		s.Logger.Info("seeded account", "email", account.Email, "role", account.Role)

		if demo.Role != domainauth.RoleClient {
			continue
		}
		if err := s.seedClientContent(ctx, account, &res); err != nil {
			return res, fmt.Errorf("seed content for %s: %w", account.Email, err)
		}
	}

	return res, nil
}

func (s *Seeder) seedClientContent(ctx context.Context, account *model.Account, res *Result) error {
	if err := s.seedMaterials(ctx, account, res); err != nil {
		return err
	}
	if err := s.seedCampaigns(ctx, account, res); err != nil {
		return err
	}
	if err := s.seedDocuments(ctx, account, res); err != nil {
		return err
	}
	return s.seedNotifications(ctx, account, res)
}

func (s *Seeder) seedMaterials(ctx context.Context, account *model.Account, res *Result) error {
	now := time.Now()
	nextWeek := now.AddDate(0, 0, 7)

	specs := []struct {
		req      model.CreateMaterialRequest
		approval model.ApprovalStatus
		comment  string
	}{
		{
			req: model.CreateMaterialRequest{
				ClientID:      account.ID,
				Title:         "Post de lançamento",
				Description:   optional("Arte para o feed anunciando a nova linha de produtos."),
				FileURL:       optional("https://cdn.clientus.test/materials/lancamento.png"),
				FileType:      optional("image/png"),
				ThumbnailURL:  optional("https://cdn.clientus.test/materials/lancamento-thumb.png"),
				ScheduledDate: &nextWeek,
				Status:        model.MaterialStatusScheduled,
			},
			approval: model.ApprovalPending,
		},
		{
			req: model.CreateMaterialRequest{
				ClientID:    account.ID,
				Title:       "Stories promocionais",
				Description: optional("Sequência de três stories para a campanha de desconto."),
				FileURL:     optional("https://cdn.clientus.test/materials/stories.mp4"),
				FileType:    optional("video/mp4"),
				Status:      model.MaterialStatusPublished,
			},
			approval: model.ApprovalApproved,
			comment:  "Aprovado, pode publicar.",
		},
		{
			req: model.CreateMaterialRequest{
				ClientID:    account.ID,
				Title:       "Banner institucional",
				Description: optional("Banner para o site com a identidade atualizada."),
				FileURL:     optional("https://cdn.clientus.test/materials/banner.jpg"),
				FileType:    optional("image/jpeg"),
				Status:      model.MaterialStatusDraft,
			},
			approval: model.ApprovalRevision,
			comment:  "Ajustar o logo, a versão atual está desatualizada.",
		},
	}

	for _, spec := range specs {
		material, err := s.Materials.Create(ctx, &spec.req)
		if err != nil {
			return err
		}
		res.Materials++

		if spec.approval != model.ApprovalPending {
			if _, err := s.Materials.SetApprovalStatus(ctx, material.ID, spec.approval); err != nil {
				return err
			}
		}
		if spec.comment != "" {
			_, err := s.Materials.AddComment(ctx, core.AddCommentParams{
				MaterialID: material.ID,
				AuthorID:   account.ID,
				AuthorName: account.Name,
				Message:    spec.comment,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedCampaigns(ctx context.Context, account *model.Account, res *Result) error {
	start := time.Now().AddDate(0, -1, 0)
	end := time.Now().AddDate(0, 1, 0)

	specs := []struct {
		req     model.CreateCampaignRequest
		metrics *model.CampaignMetrics
	}{
		{
			req: model.CreateCampaignRequest{
				ClientID:  account.ID,
				Name:      "Campanha de tráfego",
				Platform:  "Meta Ads",
				Status:    model.CampaignStatusActive,
				Budget:    5000,
				StartDate: &start,
				EndDate:   &end,
			},
			metrics: &model.CampaignMetrics{
				Impressions: 182_400,
				Clicks:      5_310,
				Spent:       2_860.45,
				Conversions: 212,
			},
		},
		{
			req: model.CreateCampaignRequest{
				ClientID:  account.ID,
				Name:      "Busca institucional",
				Platform:  "Google Ads",
				Status:    model.CampaignStatusPaused,
				Budget:    3000,
				StartDate: &start,
			},
			metrics: &model.CampaignMetrics{
				Impressions: 64_900,
				Clicks:      1_980,
				Spent:       1_240.10,
				Conversions: 95,
			},
		},
		{
			req: model.CreateCampaignRequest{
				ClientID: account.ID,
				Name:     "Planejamento próximo trimestre",
				Platform: "LinkedIn Ads",
				Status:   model.CampaignStatusDraft,
				Budget:   2000,
			},
		},
	}

	for _, spec := range specs {
		campaign, err := s.Campaigns.Create(ctx, &spec.req)
		if err != nil {
			return err
		}
		res.Campaigns++

		if spec.metrics != nil {
			if _, err := s.Campaigns.UpdateMetrics(ctx, campaign.ID, *spec.metrics); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedDocuments(ctx context.Context, account *model.Account, res *Result) error {
	docs := []model.CreateDocumentRequest{
		{
			ClientID:  account.ID,
			Name:      "Briefing inicial",
			FileURL:   "https://cdn.clientus.test/docs/briefing.pdf",
			FileType:  "application/pdf",
			Category:  model.DocCategoryBriefing,
			SizeBytes: 482_133,
		},
		{
			ClientID:  account.ID,
			Name:      "Contrato de prestação de serviços",
			FileURL:   "https://cdn.clientus.test/docs/contrato.pdf",
			FileType:  "application/pdf",
			Category:  model.DocCategoryContract,
			SizeBytes: 1_204_772,
		},
		{
			ClientID:  account.ID,
			Name:      "Relatório mensal",
			FileURL:   "https://cdn.clientus.test/docs/relatorio.pdf",
			FileType:  "application/pdf",
			Category:  model.DocCategoryReport,
			SizeBytes: 2_355_090,
		},
	}

	for i := range docs {
		if _, err := s.Documents.Create(ctx, &docs[i]); err != nil {
			return err
		}
		res.Documents++
	}
	return nil
}

func (s *Seeder) seedNotifications(ctx context.Context, account *model.Account, res *Result) error {
	notes := []model.CreateNotificationRequest{
		{
			AccountID: account.ID,
			Title:     "Bem-vindo ao portal",
			Message:   "Seu acesso foi liberado. Explore seus materiais e campanhas.",
			Type:      model.NotifySuccess,
		},
		{
			AccountID: account.ID,
			Title:     "Material aguardando aprovação",
			Message:   "Há um novo material pendente de revisão.",
			Type:      model.NotifyInfo,
		},
		{
			AccountID: account.ID,
			Title:     "Relatório disponível",
			Message:   "O relatório mensal foi publicado na biblioteca.",
			Type:      model.NotifyInfo,
		},
	}

	for i := range notes {
		if _, err := s.Notifications.Create(ctx, &notes[i]); err != nil {
			return err
		}
		res.Notifications++
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
