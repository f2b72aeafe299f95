package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is an actor's effective role. The legacy users.role column and the
// user_roles relation both feed into it; derivation happens once, at token
// issue time (see service/auth).
type Role string

const (
	RoleUser            Role = "user"
	RoleClubManager     Role = "club_manager"
	RoleFederationAdmin Role = "admin_federation"
)

type User struct {
	Base
	LastName     string     `json:"last_name" db:"last_name"`
	FirstName    string     `json:"first_name" db:"first_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	ClubID       *uuid.UUID `json:"club_id,omitempty" db:"club_id"`
	FederationID *uuid.UUID `json:"federation_id,omitempty" db:"federation_id"`
}

// Principal is the immutable per-request actor context: a verified identity
// plus its effective role and organizational scope. Handlers and services
// never re-derive any of it.
type Principal struct {
	UserID       uuid.UUID  `json:"user_id"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	ClubID       *uuid.UUID `json:"club_id,omitempty"`
	FederationID *uuid.UUID `json:"federation_id,omitempty"`
}

// IsFederationAdmin reports whether the principal holds the federation admin role.
func (p *Principal) IsFederationAdmin() bool {
	return p.Role == RoleFederationAdmin
}

// MemberOfClub reports whether the principal is scoped to the given club.
func (p *Principal) MemberOfClub(clubID uuid.UUID) bool {
	return p.ClubID != nil && *p.ClubID == clubID
}

type Invitation struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Token        string     `json:"token" db:"token"`
	Email        string     `json:"email" db:"email"`
	Role         Role       `json:"role" db:"role"`
	ClubID       *uuid.UUID `json:"club_id,omitempty" db:"club_id"`
	FederationID *uuid.UUID `json:"federation_id,omitempty" db:"federation_id"`
	ExpiresAt    time.Time  `json:"expires_at" db:"expires_at"`
	Used         bool       `json:"used" db:"used"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Valid reports whether the invitation can still be consumed.
func (i *Invitation) Valid(now time.Time) bool {
	return !i.Used && now.Before(i.ExpiresAt)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Token     string `json:"token" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

type CreateInvitationRequest struct {
	Email  string     `json:"email" binding:"required,email"`
	Role   Role       `json:"role" binding:"required,oneof=user club_manager admin_federation"`
	ClubID *uuid.UUID `json:"club_id,omitempty"`
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Principal   *Principal `json:"principal"`
}
