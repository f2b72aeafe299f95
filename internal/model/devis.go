package model

import (
	"time"

	"github.com/google/uuid"
)

// DevisStatus is deliberately unconstrained: any of the four values may be
// set from any source. Low-stakes internal triage wants that looseness;
// accepted and refused additionally stamp ProcessedAt.
type DevisStatus string

const (
	DevisStatusNew        DevisStatus = "new"
	DevisStatusInProgress DevisStatus = "in_progress"
	DevisStatusAccepted   DevisStatus = "accepted"
	DevisStatusRefused    DevisStatus = "refused"
)

// ValidDevisStatus reports whether s is one of the four triage values.
func ValidDevisStatus(s DevisStatus) bool {
	switch s {
	case DevisStatusNew, DevisStatusInProgress, DevisStatusAccepted, DevisStatusRefused:
		return true
	}
	return false
}

// Devis is a commercial quote request from a prospective organization.
type Devis struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	Reference        string      `json:"reference" db:"reference"`
	Status           DevisStatus `json:"status" db:"status"`
	ContactName      string      `json:"contact_name" db:"contact_name"`
	ContactEmail     string      `json:"contact_email" db:"contact_email"`
	ContactPhone     *string     `json:"contact_phone,omitempty" db:"contact_phone"`
	OrganizationName *string     `json:"organization_name,omitempty" db:"organization_name"`
	OrganizationType *string     `json:"organization_type,omitempty" db:"organization_type"`
	Message          *string     `json:"message,omitempty" db:"message"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	ProcessedAt      *time.Time  `json:"processed_at,omitempty" db:"processed_at"`

	Items []*DevisItem `json:"items,omitempty" db:"-"`
}

type DevisItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DevisID   uuid.UUID `json:"devis_id" db:"devis_id"`
	OfferID   uuid.UUID `json:"offer_id" db:"offer_id"`
	OfferName string    `json:"offer_name,omitempty" db:"offer_name"`
}

// Offer is a pricing plan a devis can reference.
type Offer struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      *string   `json:"description,omitempty" db:"description"`
	ShortDescription *string   `json:"short_description,omitempty" db:"short_description"`
	MonthlyPrice     *int      `json:"monthly_price,omitempty" db:"monthly_price"`
	AnnualPrice      *int      `json:"annual_price,omitempty" db:"annual_price"`
	Currency         string    `json:"currency" db:"currency"`
	Badge            *string   `json:"badge,omitempty" db:"badge"`
	Popular          bool      `json:"popular" db:"popular"`
	Active           bool      `json:"active" db:"active"`
	Position         int       `json:"position" db:"position"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type CreateDevisRequest struct {
	ContactName      string      `json:"contact_name" binding:"required"`
	ContactEmail     string      `json:"contact_email" binding:"required,email"`
	ContactPhone     *string     `json:"contact_phone,omitempty"`
	OrganizationName *string     `json:"organization_name,omitempty"`
	OrganizationType *string     `json:"organization_type,omitempty"`
	Message          *string     `json:"message,omitempty"`
	OfferIDs         []uuid.UUID `json:"offer_ids,omitempty"`
}

type UpdateDevisStatusRequest struct {
	Status DevisStatus `json:"status" binding:"required,devis_status"`
}
