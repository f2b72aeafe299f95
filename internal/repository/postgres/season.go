package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type seasonRepository struct {
	*BaseRepository
}

func NewSeasonRepository(base *BaseRepository) repository.SeasonRepository {
	return &seasonRepository{BaseRepository: base}
}

func (r *seasonRepository) ActiveForFederation(ctx context.Context, federationID uuid.UUID) (*model.Season, error) {
	query := `
		SELECT id, code, federation_id, start_date, end_date, active, created_at, updated_at
		FROM seasons
		WHERE federation_id = $1 AND active = TRUE
	`
	var season model.Season
	if err := r.GetDB().GetContext(ctx, &season, query, federationID); err != nil {
		return nil, mapError("active season", err)
	}
	return &season, nil
}
