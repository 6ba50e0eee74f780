//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/clientus/portal/internal/domain/auth"
)

const (
	maxAccountNameLen = 255
	maxEmailLen       = 320
)

// Account represents a portal account: the agency administrator or one of
// the agency's clients. Client-facing views are always scoped to a single
// account; admin views span all of them.
type Account struct {
	ID             string                   `json:"id"                        db:"id"`
	Name           string                   `json:"name"                      db:"name"`
	Email          string                   `json:"email"                     db:"email"`
	Role           domainauth.Role          `json:"role"                      db:"role"`
	Status         domainauth.AccountStatus `json:"status"                    db:"status"`
	ContactPerson  *string                  `json:"contact_person,omitempty"  db:"contact_person"`
	Company        *string                  `json:"company,omitempty"         db:"company"`
	ProjectType    *string                  `json:"project_type,omitempty"    db:"project_type"`
	AvatarURL      *string                  `json:"avatar_url,omitempty"      db:"avatar_url"`
	VisibleMetrics []string                 `json:"visible_metrics,omitempty" db:"visible_metrics"`
	CreatedAt      time.Time                `json:"created_at"                db:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"                db:"updated_at"`
}

// AccountListOptions controls paging and filtering for listing accounts.
// Q matches name or email via ILIKE substring; Status matches exactly.
type AccountListOptions struct {
	Limit  int
	Offset int
	Q      *string
	Status *domainauth.AccountStatus
	Role   *domainauth.Role
}

// CreateAccountRequest represents parameters to create an Account.
type CreateAccountRequest struct {
	Name           string                   `json:"name"`
	Email          string                   `json:"email"`
	Role           domainauth.Role          `json:"role,omitempty"`
	Status         domainauth.AccountStatus `json:"status,omitempty"`
	ContactPerson  *string                  `json:"contact_person,omitempty"`
	Company        *string                  `json:"company,omitempty"`
	ProjectType    *string                  `json:"project_type,omitempty"`
	AvatarURL      *string                  `json:"avatar_url,omitempty"`
	VisibleMetrics []string                 `json:"visible_metrics,omitempty"`
}

// UpdateAccountRequest represents parameters to update an Account.
// Role is intentionally absent: a role is immutable once assigned.
type UpdateAccountRequest struct {
	Name           *string                   `json:"name,omitempty"`
	Email          *string                   `json:"email,omitempty"`
	Status         *domainauth.AccountStatus `json:"status,omitempty"`
	ContactPerson  *string                   `json:"contact_person,omitempty"`
	Company        *string                   `json:"company,omitempty"`
	ProjectType    *string                   `json:"project_type,omitempty"`
	AvatarURL      *string                   `json:"avatar_url,omitempty"`
	VisibleMetrics []string                  `json:"visible_metrics,omitempty"`
}

func validAccountStatus(s domainauth.AccountStatus) bool {
	return s.Valid()
}

func validEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return errors.New("email cannot exceed 320 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is not a valid address")
	}
	return nil
}

// Validate validates CreateAccountRequest and normalizes defaults.
func (r *CreateAccountRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxAccountNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if err := validEmail(strings.TrimSpace(r.Email)); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = domainauth.RoleClient
	}
	if r.Role != domainauth.RoleAdmin && r.Role != domainauth.RoleClient {
		return errors.New("role must be admin or client")
	}
	if r.Status == "" {
		r.Status = domainauth.StatusPending
	}
	if !validAccountStatus(r.Status) {
		return errors.New("invalid status")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateAccountRequest.
func (r *UpdateAccountRequest) HasUpdates() bool {
	return r.Name != nil || r.Email != nil || r.Status != nil ||
		r.ContactPerson != nil || r.Company != nil || r.ProjectType != nil ||
		r.AvatarURL != nil || r.VisibleMetrics != nil
}

// Validate validates UpdateAccountRequest, ensuring at least one field is set.
func (r *UpdateAccountRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxAccountNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.Email != nil {
		if err := validEmail(strings.TrimSpace(*r.Email)); err != nil {
			return err
		}
	}
	if r.Status != nil && !validAccountStatus(*r.Status) {
		return errors.New("invalid status")
	}
	return nil
}
