package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/clientus/portal/config"
	redisadapter "github.com/clientus/portal/internal/adapters/redis"
	"github.com/clientus/portal/internal/data"
	"github.com/clientus/portal/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Accounts      *service.AccountService
	Materials     *service.MaterialService
	Campaigns     *service.CampaignService
	Documents     *service.DocumentService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService
	Auth          *service.AuthService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	AccountRepo      *data.AccountRepo
	MaterialRepo     *data.MaterialRepo
	CampaignRepo     *data.CampaignRepo
	DocumentRepo     *data.DocumentRepo
	NotificationRepo *data.NotificationRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		AccountRepo:      data.NewAccountRepo(db),
		MaterialRepo:     data.NewMaterialRepo(db),
		CampaignRepo:     data.NewCampaignRepo(db),
		DocumentRepo:     data.NewDocumentRepo(db),
		NotificationRepo: data.NewNotificationRepo(db),
	}
}

// NewServices wires repositories and adapters into the service container.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)

	accounts := service.NewAccountService(service.AccountServiceOptions{
		AccountRepo:   repos.AccountRepo,
		Notifications: repos.NotificationRepo,
	})
	materials := service.NewMaterialService(service.MaterialServiceOptions{
		MaterialRepo:  repos.MaterialRepo,
		AccountRepo:   repos.AccountRepo,
		Notifications: repos.NotificationRepo,
		Logger:        logger,
	})
	campaigns := service.NewCampaignService(service.CampaignServiceOptions{
		CampaignRepo:  repos.CampaignRepo,
		AccountRepo:   repos.AccountRepo,
		Notifications: repos.NotificationRepo,
		Logger:        logger,
	})
	documents := service.NewDocumentService(service.DocumentServiceOptions{
		DocumentRepo:  repos.DocumentRepo,
		Notifications: repos.NotificationRepo,
	})
	var unreadCache service.UnreadCountCache
	if deps.RedisClient != nil {
		unreadCache = redisadapter.NewUnreadCountCache(deps.RedisClient, 0)
	}
	notifications := service.NewNotificationService(service.NotificationServiceOptions{
		NotificationRepo: repos.NotificationRepo,
		UnreadCache:      unreadCache,
		Logger:           logger,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		AccountRepo:      repos.AccountRepo,
		MaterialRepo:     repos.MaterialRepo,
		CampaignRepo:     repos.CampaignRepo,
		NotificationRepo: repos.NotificationRepo,
	})

	auth := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Accounts:      accounts,
		Materials:     materials,
		Campaigns:     campaigns,
		Documents:     documents,
		Notifications: notifications,
		Dashboard:     dashboard,
		Auth:          auth,
	}
}
