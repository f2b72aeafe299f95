package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type offerRepository struct {
	*BaseRepository
}

func NewOfferRepository(base *BaseRepository) repository.OfferRepository {
	return &offerRepository{BaseRepository: base}
}

const offerColumns = `id, name, description, short_description, monthly_price, annual_price,
		currency, badge, popular, active, position, created_at`

func (r *offerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	var offer model.Offer
	if err := r.GetDB().GetContext(ctx, &offer, query, id); err != nil {
		return nil, mapError("offer", err)
	}
	return &offer, nil
}

func (r *offerRepository) ListActive(ctx context.Context) ([]*model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE active = TRUE ORDER BY position`
	var offers []*model.Offer
	if err := r.GetDB().SelectContext(ctx, &offers, query); err != nil {
		return nil, mapError("offer", err)
	}
	return offers, nil
}
