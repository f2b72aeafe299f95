package model

import (
	"time"

	"github.com/google/uuid"
)

type Club struct {
	Base
	Name         string     `json:"name" db:"name"`
	LegalName    *string    `json:"legal_name,omitempty" db:"legal_name"`
	Division     *string    `json:"division,omitempty" db:"division"`
	Address      *string    `json:"address,omitempty" db:"address"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Email        string     `json:"email" db:"email"`
	LogoURL      *string    `json:"logo_url,omitempty" db:"logo_url"`
	FederationID uuid.UUID  `json:"federation_id" db:"federation_id"`
	LeagueID     *uuid.UUID `json:"league_id,omitempty" db:"league_id"`
}

type Adherent struct {
	Base
	LastName   string     `json:"last_name" db:"last_name"`
	FirstName  string     `json:"first_name" db:"first_name"`
	BirthDate  time.Time  `json:"birth_date" db:"birth_date"`
	Gender     *string    `json:"gender,omitempty" db:"gender"`
	Email      *string    `json:"email,omitempty" db:"email"`
	Phone      *string    `json:"phone,omitempty" db:"phone"`
	ClubID     uuid.UUID  `json:"club_id" db:"club_id"`
	CategoryID *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	Active     bool       `json:"active" db:"active"`
}

type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Season is one federation's season window. At most one is active per
// federation at a time; license creation requires it.
type Season struct {
	Base
	Code         string    `json:"code" db:"code"`
	FederationID uuid.UUID `json:"federation_id" db:"federation_id"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	Active       bool      `json:"active" db:"active"`
}

type CreateAdherentRequest struct {
	LastName   string     `json:"last_name" binding:"required"`
	FirstName  string     `json:"first_name" binding:"required"`
	BirthDate  time.Time  `json:"birth_date" binding:"required" time_format:"2006-01-02"`
	Gender     *string    `json:"gender,omitempty"`
	Email      *string    `json:"email,omitempty" binding:"omitempty,email"`
	Phone      *string    `json:"phone,omitempty"`
	ClubID     uuid.UUID  `json:"club_id" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}
