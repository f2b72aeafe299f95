package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type invitationRepository struct {
	*BaseRepository
}

func NewInvitationRepository(base *BaseRepository) repository.InvitationRepository {
	return &invitationRepository{BaseRepository: base}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	query := `
		INSERT INTO invitations (id, token, email, role, club_id, federation_id, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	invitation.CreatedAt = time.Now()

	_, err := r.GetDB().ExecContext(ctx, query,
		invitation.ID,
		invitation.Token,
		invitation.Email,
		invitation.Role,
		invitation.ClubID,
		invitation.FederationID,
		invitation.ExpiresAt,
		invitation.Used,
		invitation.CreatedAt,
	)
	return mapError("invitation", err)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	query := `
		SELECT id, token, email, role, club_id, federation_id, expires_at, used, created_at
		FROM invitations
		WHERE token = $1
	`
	var invitation model.Invitation
	if err := r.GetDB().GetContext(ctx, &invitation, query, token); err != nil {
		return nil, mapError("invitation", err)
	}
	return &invitation, nil
}

func (r *invitationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE invitations SET used = TRUE WHERE id = $1`
	_, err := r.GetDB().ExecContext(ctx, query, id)
	return mapError("invitation", err)
}
