package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Account repository sentinels.
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountEmailExists = errors.New("account email already exists")

	// Material repository sentinels.
	ErrMaterialNotFound = errors.New("material not found")

	// Campaign repository sentinels.
	ErrCampaignNotFound = errors.New("campaign not found")

	// Document repository sentinels.
	ErrDocumentNotFound = errors.New("document not found")

	// Notification repository sentinels.
	ErrNotificationNotFound = errors.New("notification not found")
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)
