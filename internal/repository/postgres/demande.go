package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type demandeRepository struct {
	*BaseRepository
}

func NewDemandeRepository(base *BaseRepository) repository.DemandeRepository {
	return &demandeRepository{BaseRepository: base}
}

const demandeColumns = `id, type, status, comments, user_id, club_id, licence_id,
		created_at, modified_at, submitted_at, validated_at, refused_at`

func (r *demandeRepository) Create(ctx context.Context, demande *model.Demande) error {
	query := `
		INSERT INTO demandes (id, type, status, comments, user_id, club_id, licence_id, created_at, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	demande.CreatedAt = time.Now()

	_, err := r.GetDB().ExecContext(ctx, query,
		demande.ID,
		demande.Type,
		demande.Status,
		demande.Comments,
		demande.UserID,
		demande.ClubID,
		demande.LicenceID,
		demande.CreatedAt,
		demande.SubmittedAt,
	)
	return mapError("demande", err)
}

func (r *demandeRepository) Get(ctx context.Context, id uuid.UUID) (*model.Demande, error) {
	query := `SELECT ` + demandeColumns + ` FROM demandes WHERE id = $1`
	var demande model.Demande
	if err := r.GetDB().GetContext(ctx, &demande, query, id); err != nil {
		return nil, mapError("demande", err)
	}
	return &demande, nil
}

func (r *demandeRepository) List(ctx context.Context) ([]*model.Demande, error) {
	query := `SELECT ` + demandeColumns + ` FROM demandes ORDER BY created_at DESC`
	var demandes []*model.Demande
	if err := r.GetDB().SelectContext(ctx, &demandes, query); err != nil {
		return nil, mapError("demande", err)
	}
	return demandes, nil
}

func (r *demandeRepository) ListForClub(ctx context.Context, clubID uuid.UUID) ([]*model.Demande, error) {
	query := `SELECT ` + demandeColumns + ` FROM demandes WHERE club_id = $1 ORDER BY created_at DESC`
	var demandes []*model.Demande
	if err := r.GetDB().SelectContext(ctx, &demandes, query, clubID); err != nil {
		return nil, mapError("demande", err)
	}
	return demandes, nil
}

func (r *demandeRepository) Transition(ctx context.Context, id uuid.UUID, apply func(*model.Demande) error) (*model.Demande, error) {
	var demande model.Demande
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + demandeColumns + ` FROM demandes WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &demande, query, id); err != nil {
			return mapError("demande", err)
		}

		if err := apply(&demande); err != nil {
			return err
		}

		update := `
			UPDATE demandes
			SET status = $1, comments = $2, modified_at = $3, submitted_at = $4,
				validated_at = $5, refused_at = $6
			WHERE id = $7
		`
		if _, err := tx.ExecContext(ctx, update,
			demande.Status,
			demande.Comments,
			demande.ModifiedAt,
			demande.SubmittedAt,
			demande.ValidatedAt,
			demande.RefusedAt,
			demande.ID,
		); err != nil {
			return mapError("demande", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &demande, nil
}
