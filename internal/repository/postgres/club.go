package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type clubRepository struct {
	*BaseRepository
}

func NewClubRepository(base *BaseRepository) repository.ClubRepository {
	return &clubRepository{BaseRepository: base}
}

const clubColumns = `id, name, legal_name, division, address, phone, email, logo_url,
		federation_id, league_id, created_at, updated_at`

func (r *clubRepository) Get(ctx context.Context, id uuid.UUID) (*model.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	var club model.Club
	if err := r.GetDB().GetContext(ctx, &club, query, id); err != nil {
		return nil, mapError("club", err)
	}
	return &club, nil
}

func (r *clubRepository) ListForFederation(ctx context.Context, federationID uuid.UUID) ([]*model.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE federation_id = $1 ORDER BY name`
	var clubs []*model.Club
	if err := r.GetDB().SelectContext(ctx, &clubs, query, federationID); err != nil {
		return nil, mapError("club", err)
	}
	return clubs, nil
}
