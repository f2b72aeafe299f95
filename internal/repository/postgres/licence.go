package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type licenceRepository struct {
	*BaseRepository
}

func NewLicenceRepository(base *BaseRepository) repository.LicenceRepository {
	return &licenceRepository{BaseRepository: base}
}

const licenceColumns = `id, number, status, request_type, last_name, first_name, birth_date,
		category_id, club_id, season_id, adherent_id,
		created_at, submitted_at, validated_at, refused_at, rejection_reason`

func (r *licenceRepository) Create(ctx context.Context, licence *model.Licence) error {
	query := `
		INSERT INTO licences (id, number, status, request_type, last_name, first_name, birth_date,
			category_id, club_id, season_id, adherent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	licence.CreatedAt = time.Now()

	_, err := r.GetDB().ExecContext(ctx, query,
		licence.ID,
		licence.Number,
		licence.Status,
		licence.RequestType,
		licence.LastName,
		licence.FirstName,
		licence.BirthDate,
		licence.CategoryID,
		licence.ClubID,
		licence.SeasonID,
		licence.AdherentID,
		licence.CreatedAt,
	)
	if err != nil {
		return mapError("licence", err)
	}
	return nil
}

func (r *licenceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Licence, error) {
	query := `SELECT ` + licenceColumns + ` FROM licences WHERE id = $1`
	var licence model.Licence
	if err := r.GetDB().GetContext(ctx, &licence, query, id); err != nil {
		return nil, mapError("licence", err)
	}
	return &licence, nil
}

func (r *licenceRepository) Update(ctx context.Context, licence *model.Licence) error {
	query := `
		UPDATE licences
		SET last_name = $1, first_name = $2, birth_date = $3, category_id = $4
		WHERE id = $5
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		licence.LastName,
		licence.FirstName,
		licence.BirthDate,
		licence.CategoryID,
		licence.ID,
	)
	return mapError("licence", err)
}

func (r *licenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM licences WHERE id = $1`
	_, err := r.GetDB().ExecContext(ctx, query, id)
	return mapError("licence", err)
}

func (r *licenceRepository) List(ctx context.Context, filters *model.LicenceFilters) ([]*model.Licence, error) {
	query := `SELECT ` + licenceColumns + ` FROM licences WHERE 1=1`
	query, args := appendLicenceFilters(query, nil, filters)
	query += ` ORDER BY created_at DESC`

	var licences []*model.Licence
	if err := r.GetDB().SelectContext(ctx, &licences, query, args...); err != nil {
		return nil, mapError("licence", err)
	}
	return licences, nil
}

func (r *licenceRepository) ListForFederation(ctx context.Context, federationID uuid.UUID, filters *model.LicenceFilters) ([]*model.Licence, error) {
	query := `
		SELECT l.id, l.number, l.status, l.request_type, l.last_name, l.first_name, l.birth_date,
			l.category_id, l.club_id, l.season_id, l.adherent_id,
			l.created_at, l.submitted_at, l.validated_at, l.refused_at, l.rejection_reason
		FROM licences l
		JOIN seasons s ON s.id = l.season_id
		WHERE s.federation_id = $1`
	args := []interface{}{federationID}
	query, args = appendLicenceFilters(query, args, filters)
	query += ` ORDER BY l.created_at DESC`

	var licences []*model.Licence
	if err := r.GetDB().SelectContext(ctx, &licences, query, args...); err != nil {
		return nil, mapError("licence", err)
	}
	return licences, nil
}

func appendLicenceFilters(query string, args []interface{}, filters *model.LicenceFilters) (string, []interface{}) {
	if filters == nil {
		return query, args
	}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}
	if filters.ClubID != nil {
		add(" AND club_id = $%d", *filters.ClubID)
	}
	if filters.Status != "" {
		add(" AND status = $%d", filters.Status)
	}
	if filters.SeasonID != nil {
		add(" AND season_id = $%d", *filters.SeasonID)
	}
	if filters.AdherentID != nil {
		add(" AND adherent_id = $%d", *filters.AdherentID)
	}
	return query, args
}

// Transition locks the row, lets apply validate and mutate it, and writes
// every transition-owned field back in the same transaction.
func (r *licenceRepository) Transition(ctx context.Context, id uuid.UUID, apply func(*model.Licence) error) (*model.Licence, error) {
	var licence model.Licence
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + licenceColumns + ` FROM licences WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &licence, query, id); err != nil {
			return mapError("licence", err)
		}

		if err := apply(&licence); err != nil {
			return err
		}

		update := `
			UPDATE licences
			SET status = $1, number = $2, submitted_at = $3, validated_at = $4,
				refused_at = $5, rejection_reason = $6
			WHERE id = $7
		`
		if _, err := tx.ExecContext(ctx, update,
			licence.Status,
			licence.Number,
			licence.SubmittedAt,
			licence.ValidatedAt,
			licence.RefusedAt,
			licence.RejectionReason,
			licence.ID,
		); err != nil {
			return mapError("licence", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &licence, nil
}
