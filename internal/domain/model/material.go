//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxMaterialTitleLen   = 255
	maxCommentMessageLen  = 2000
	maxMaterialFileTypeID = 64
)

// MaterialStatus describes the publishing lifecycle of a creative material.
type MaterialStatus string

const (
	MaterialStatusDraft     MaterialStatus = "draft"
	MaterialStatusScheduled MaterialStatus = "scheduled"
	MaterialStatusPublished MaterialStatus = "published"
	MaterialStatusArchived  MaterialStatus = "archived"
)

// Valid reports whether the material status is supported.
func (s MaterialStatus) Valid() bool {
	switch s {
	case MaterialStatusDraft, MaterialStatusScheduled, MaterialStatusPublished, MaterialStatusArchived:
		return true
	default:
		return false
	}
}

// ApprovalStatus describes the client review state of a material.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalRevision ApprovalStatus = "revision"
)

// Valid reports whether the approval status is supported.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalRevision:
		return true
	default:
		return false
	}
}

// ParseApprovalStatus normalizes an approval status string and reports whether it is supported.
func ParseApprovalStatus(value string) (ApprovalStatus, bool) {
	s := ApprovalStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Material represents a creative asset pending or past client review.
type Material struct {
	ID             string         `json:"id"                       db:"id"`
	ClientID       string         `json:"client_id"                db:"client_id"`
	Title          string         `json:"title"                    db:"title"`
	Description    *string        `json:"description,omitempty"    db:"description"`
	FileURL        *string        `json:"file_url,omitempty"       db:"file_url"`
	FileType       *string        `json:"file_type,omitempty"      db:"file_type"`
	ThumbnailURL   *string        `json:"thumbnail_url,omitempty"  db:"thumbnail_url"`
	ScheduledDate  *time.Time     `json:"scheduled_date,omitempty" db:"scheduled_date"`
	Status         MaterialStatus `json:"status"                   db:"status"`
	ApprovalStatus ApprovalStatus `json:"approval_status"          db:"approval_status"`
	CreatedAt      time.Time      `json:"created_at"               db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"               db:"updated_at"`
}

// Comment is a review note on a material, kept as a flat thread.
type Comment struct {
	ID         string    `json:"id"          db:"id"`
	MaterialID string    `json:"material_id" db:"material_id"`
	AuthorID   string    `json:"author_id"   db:"author_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Message    string    `json:"message"     db:"message"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// MaterialListOptions controls paging and filtering for listing materials.
type MaterialListOptions struct {
	Limit          int
	Offset         int
	ClientID       *string
	Status         *MaterialStatus
	ApprovalStatus *ApprovalStatus
}

// CreateMaterialRequest represents parameters to create a Material.
type CreateMaterialRequest struct {
	ClientID      string         `json:"client_id"`
	Title         string         `json:"title"`
	Description   *string        `json:"description,omitempty"`
	FileURL       *string        `json:"file_url,omitempty"`
	FileType      *string        `json:"file_type,omitempty"`
	ThumbnailURL  *string        `json:"thumbnail_url,omitempty"`
	ScheduledDate *time.Time     `json:"scheduled_date,omitempty"`
	Status        MaterialStatus `json:"status,omitempty"`
}

// UpdateMaterialRequest represents parameters to update a Material.
// Approval transitions go through ReviewMaterialRequest, not here.
type UpdateMaterialRequest struct {
	Title         *string         `json:"title,omitempty"`
	Description   *string         `json:"description,omitempty"`
	FileURL       *string         `json:"file_url,omitempty"`
	FileType      *string         `json:"file_type,omitempty"`
	ThumbnailURL  *string         `json:"thumbnail_url,omitempty"`
	ScheduledDate *time.Time      `json:"scheduled_date,omitempty"`
	Status        *MaterialStatus `json:"status,omitempty"`
}

// ReviewMaterialRequest carries a client approval decision.
type ReviewMaterialRequest struct {
	Decision ApprovalStatus `json:"decision"`
	Comment  *string        `json:"comment,omitempty"`
}

// Validate validates CreateMaterialRequest and normalizes defaults.
func (r *CreateMaterialRequest) Validate() error {
	if strings.TrimSpace(r.ClientID) == "" {
		return errors.New("client_id is required")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxMaterialTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if r.FileType != nil && utf8.RuneCountInString(*r.FileType) > maxMaterialFileTypeID {
		return errors.New("file_type cannot exceed 64 characters")
	}
	if r.Status == "" {
		r.Status = MaterialStatusDraft
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateMaterialRequest.
func (r *UpdateMaterialRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.FileURL != nil ||
		r.FileType != nil || r.ThumbnailURL != nil || r.ScheduledDate != nil ||
		r.Status != nil
}

// Validate validates UpdateMaterialRequest.
func (r *UpdateMaterialRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxMaterialTitleLen {
			return errors.New("title cannot exceed 255 characters")
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// Validate validates ReviewMaterialRequest. Only client-expressible
// decisions are accepted; "pending" is not a decision.
func (r *ReviewMaterialRequest) Validate() error {
	switch r.Decision {
	case ApprovalApproved, ApprovalRejected, ApprovalRevision:
	default:
		return errors.New("decision must be approved, rejected, or revision")
	}
	if r.Comment != nil {
		msg := strings.TrimSpace(*r.Comment)
		if msg == "" {
			r.Comment = nil
		} else if utf8.RuneCountInString(msg) > maxCommentMessageLen {
			return errors.New("comment cannot exceed 2000 characters")
		}
	}
	return nil
}

// AddCommentRequest appends a note to a material's review thread.
type AddCommentRequest struct {
	Message string `json:"message"`
}

// Validate validates AddCommentRequest.
func (r *AddCommentRequest) Validate() error {
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		return errors.New("message is required and cannot be empty")
	}
	if utf8.RuneCountInString(msg) > maxCommentMessageLen {
		return errors.New("message cannot exceed 2000 characters")
	}
	return nil
}
