// Package mocks provides mock implementations for testing the portal services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The generated files are checked in so tests build without a codegen step.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockAccountRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(account, nil)
package mocks

// Generate mock for AccountRepository interface from internal/core package.
// This creates MockAccountRepository with methods for all AccountRepository interface methods:
// Create, GetByID, GetByEmail, List, CountByStatus, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=account_repository_mock.go github.com/clientus/portal/internal/core AccountRepository

// Generate mock for MaterialRepository interface from internal/core package.
// This creates MockMaterialRepository with methods for all MaterialRepository interface methods:
// Create, GetByID, List, CountPendingApproval, Update, SetApprovalStatus, Delete, AddComment, ListComments
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=material_repository_mock.go github.com/clientus/portal/internal/core MaterialRepository

// Generate mock for CampaignRepository interface from internal/core package.
// This creates MockCampaignRepository with methods for all CampaignRepository interface methods:
// Create, GetByID, List, CountByStatus, Update, UpdateMetrics, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=campaign_repository_mock.go github.com/clientus/portal/internal/core CampaignRepository

// Generate mock for DocumentRepository interface from internal/core package.
// This creates MockDocumentRepository with methods for all DocumentRepository interface methods:
// Create, GetByID, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=document_repository_mock.go github.com/clientus/portal/internal/core DocumentRepository

// Generate mock for NotificationRepository interface from internal/core package.
// This creates MockNotificationRepository with methods for all NotificationRepository interface methods:
// Create, ListByAccount, MarkRead, MarkAllRead, CountUnread
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=notification_repository_mock.go github.com/clientus/portal/internal/core NotificationRepository
