package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleGuest  Role = "guest"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleGuest:
		return true
	default:
		return false
	}
}

// AccountStatus describes the lifecycle state of a portal account.
// Informational only; it does not gate access.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusPending  AccountStatus = "pending"
)

// Valid reports whether the status is one of the supported values.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}

// IdentitySource records which resolver produced an identity.
type IdentitySource string

const (
	// SourceDemo marks identities resolved from the fixed demo account table.
	SourceDemo IdentitySource = "demo"
	// SourceProvider marks identities resolved via the external identity provider.
	SourceProvider IdentitySource = "provider"
)

// SessionSchemaVersion is the current on-the-wire version of persisted
// sessions. Stored sessions with a different version are discarded on load
// rather than interpreted.
const SessionSchemaVersion = 1

// Identity represents the authenticated principal returned by a resolver.
// Adapters map provider claims or demo table entries into this shape.
type Identity struct {
	UserID    string // stable user identifier (demo account id or provider sub)
	Name      string
	Email     string
	Role      Role
	Status    AccountStatus
	Source    IdentitySource
	AvatarURL string
	Company   string
	ExpiresAt time.Time // absolute expiry of the authenticated identity
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	SchemaVersion int            `json:"schema_version"`
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          Role           `json:"role"`
	Status        AccountStatus  `json:"status,omitempty"`
	Source        IdentitySource `json:"source"`
	Generation    int64          `json:"generation"`
	AvatarURL     string         `json:"avatar_url,omitempty"`
	Company       string         `json:"company,omitempty"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
