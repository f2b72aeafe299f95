package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
)

// All repository interfaces in one file
type (
	// LicenceRepository handles licence persistence. Transition runs apply
	// against the row under a row lock and writes the result back in the
	// same transaction, so two concurrent transitions on one licence
	// serialize instead of both committing against a stale source state.
	LicenceRepository interface {
		Create(ctx context.Context, licence *model.Licence) error
		Get(ctx context.Context, id uuid.UUID) (*model.Licence, error)
		Update(ctx context.Context, licence *model.Licence) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.LicenceFilters) ([]*model.Licence, error)
		ListForFederation(ctx context.Context, federationID uuid.UUID, filters *model.LicenceFilters) ([]*model.Licence, error)
		Transition(ctx context.Context, id uuid.UUID, apply func(*model.Licence) error) (*model.Licence, error)
	}

	DemandeRepository interface {
		Create(ctx context.Context, demande *model.Demande) error
		Get(ctx context.Context, id uuid.UUID) (*model.Demande, error)
		List(ctx context.Context) ([]*model.Demande, error)
		ListForClub(ctx context.Context, clubID uuid.UUID) ([]*model.Demande, error)
		Transition(ctx context.Context, id uuid.UUID, apply func(*model.Demande) error) (*model.Demande, error)
	}

	DevisRepository interface {
		Create(ctx context.Context, devis *model.Devis, offerIDs []uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.Devis, error)
		List(ctx context.Context) ([]*model.Devis, error)
		LatestReferenceForYear(ctx context.Context, prefix string) (string, error)
		Transition(ctx context.Context, id uuid.UUID, apply func(*model.Devis) error) (*model.Devis, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
		MarkRead(ctx context.Context, userID, id uuid.UUID) error
		MarkAllRead(ctx context.Context, userID uuid.UUID) error
		CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	}

	AdherentRepository interface {
		Create(ctx context.Context, adherent *model.Adherent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Adherent, error)
		FindByIdentity(ctx context.Context, lastName, firstName string, birthDate string, clubID uuid.UUID) (*model.Adherent, error)
		ListForClub(ctx context.Context, clubID uuid.UUID) ([]*model.Adherent, error)
		Update(ctx context.Context, adherent *model.Adherent) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	SeasonRepository interface {
		ActiveForFederation(ctx context.Context, federationID uuid.UUID) (*model.Season, error)
	}

	ClubRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Club, error)
		ListForFederation(ctx context.Context, federationID uuid.UUID) ([]*model.Club, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	}

	InvitationRepository interface {
		Create(ctx context.Context, invitation *model.Invitation) error
		GetByToken(ctx context.Context, token string) (*model.Invitation, error)
		MarkUsed(ctx context.Context, id uuid.UUID) error
	}

	OfferRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Offer, error)
		ListActive(ctx context.Context) ([]*model.Offer, error)
	}
)
