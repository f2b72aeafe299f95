package model

import (
	"time"

	"github.com/google/uuid"
)

// DemandeStatus is the lifecycle of a generic administrative request, a
// superset of the licence graph with an explicit review stage.
type DemandeStatus string

const (
	DemandeStatusDraft       DemandeStatus = "draft"
	DemandeStatusSubmitted   DemandeStatus = "submitted"
	DemandeStatusUnderReview DemandeStatus = "under_review"
	DemandeStatusValidated   DemandeStatus = "validated"
	DemandeStatusRejected    DemandeStatus = "rejected"
)

type Demande struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Type        string        `json:"type" db:"type"`
	Status      DemandeStatus `json:"status" db:"status"`
	Comments    *string       `json:"comments,omitempty" db:"comments"`
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	ClubID      uuid.UUID     `json:"club_id" db:"club_id"`
	LicenceID   *uuid.UUID    `json:"licence_id,omitempty" db:"licence_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	ModifiedAt  *time.Time    `json:"modified_at,omitempty" db:"modified_at"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty" db:"submitted_at"`
	ValidatedAt *time.Time    `json:"validated_at,omitempty" db:"validated_at"`
	RefusedAt   *time.Time    `json:"refused_at,omitempty" db:"refused_at"`
}

type CreateDemandeRequest struct {
	Type      string     `json:"type" binding:"required"`
	Comments  *string    `json:"comments,omitempty"`
	LicenceID *uuid.UUID `json:"licence_id,omitempty"`
}

type UpdateDemandeStatusRequest struct {
	Status   DemandeStatus `json:"status" binding:"required,demande_status"`
	Comments *string       `json:"comments,omitempty"`
}
