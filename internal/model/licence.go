package model

import (
	"time"

	"github.com/google/uuid"
)

// LicenceStatus walks a monotonic graph: draft -> submitted -> validated or
// rejected. Validated and rejected are terminal; nothing transitions back
// into draft.
type LicenceStatus string

const (
	LicenceStatusDraft     LicenceStatus = "draft"
	LicenceStatusSubmitted LicenceStatus = "submitted"
	LicenceStatusValidated LicenceStatus = "validated"
	LicenceStatusRejected  LicenceStatus = "rejected"
)

// Licence is one adherent's certification request for one season. At most one
// exists per (adherent, season); the database enforces it.
type Licence struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	Number          *string       `json:"number,omitempty" db:"number"`
	Status          LicenceStatus `json:"status" db:"status"`
	RequestType     string        `json:"request_type" db:"request_type"`
	LastName        string        `json:"last_name" db:"last_name"`
	FirstName       string        `json:"first_name" db:"first_name"`
	BirthDate       time.Time     `json:"birth_date" db:"birth_date"`
	CategoryID      uuid.UUID     `json:"category_id" db:"category_id"`
	ClubID          uuid.UUID     `json:"club_id" db:"club_id"`
	SeasonID        uuid.UUID     `json:"season_id" db:"season_id"`
	AdherentID      uuid.UUID     `json:"adherent_id" db:"adherent_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty" db:"submitted_at"`
	ValidatedAt     *time.Time    `json:"validated_at,omitempty" db:"validated_at"`
	RefusedAt       *time.Time    `json:"refused_at,omitempty" db:"refused_at"`
	RejectionReason *string       `json:"rejection_reason,omitempty" db:"rejection_reason"`
}

// Editable reports whether the licence can still be modified or deleted.
func (l *Licence) Editable() bool {
	return l.Status == LicenceStatusDraft
}

type CreateLicenceRequest struct {
	LastName    string     `json:"last_name" binding:"required"`
	FirstName   string     `json:"first_name" binding:"required"`
	BirthDate   time.Time  `json:"birth_date" binding:"required" time_format:"2006-01-02"`
	CategoryID  uuid.UUID  `json:"category_id" binding:"required"`
	ClubID      uuid.UUID  `json:"club_id" binding:"required"`
	RequestType string     `json:"request_type" binding:"required"`
	AdherentID  *uuid.UUID `json:"adherent_id,omitempty"`
}

type UpdateLicenceRequest struct {
	LastName   *string    `json:"last_name,omitempty"`
	FirstName  *string    `json:"first_name,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty" time_format:"2006-01-02"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

type RejectLicenceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type LicenceFilters struct {
	ClubID     *uuid.UUID    `form:"club_id"`
	Status     LicenceStatus `form:"status"`
	SeasonID   *uuid.UUID    `form:"season_id"`
	AdherentID *uuid.UUID    `form:"adherent_id"`
}
