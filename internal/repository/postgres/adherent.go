package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type adherentRepository struct {
	*BaseRepository
}

func NewAdherentRepository(base *BaseRepository) repository.AdherentRepository {
	return &adherentRepository{BaseRepository: base}
}

const adherentColumns = `id, last_name, first_name, birth_date, gender, email, phone,
		club_id, category_id, active, created_at, updated_at`

func (r *adherentRepository) Create(ctx context.Context, adherent *model.Adherent) error {
	query := `
		INSERT INTO adherents (id, last_name, first_name, birth_date, gender, email, phone,
			club_id, category_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	adherent.CreatedAt = time.Now()
	adherent.UpdatedAt = adherent.CreatedAt

	_, err := r.GetDB().ExecContext(ctx, query,
		adherent.ID,
		adherent.LastName,
		adherent.FirstName,
		adherent.BirthDate,
		adherent.Gender,
		adherent.Email,
		adherent.Phone,
		adherent.ClubID,
		adherent.CategoryID,
		adherent.Active,
		adherent.CreatedAt,
		adherent.UpdatedAt,
	)
	return mapError("adherent", err)
}

func (r *adherentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Adherent, error) {
	query := `SELECT ` + adherentColumns + ` FROM adherents WHERE id = $1`
	var adherent model.Adherent
	if err := r.GetDB().GetContext(ctx, &adherent, query, id); err != nil {
		return nil, mapError("adherent", err)
	}
	return &adherent, nil
}

// FindByIdentity matches the original registration flow: the same person
// re-applying through the same club reuses the existing adherent row.
func (r *adherentRepository) FindByIdentity(ctx context.Context, lastName, firstName, birthDate string, clubID uuid.UUID) (*model.Adherent, error) {
	query := `
		SELECT ` + adherentColumns + `
		FROM adherents
		WHERE lower(last_name) = lower($1) AND lower(first_name) = lower($2)
			AND birth_date = $3 AND club_id = $4
	`
	var adherent model.Adherent
	if err := r.GetDB().GetContext(ctx, &adherent, query, lastName, firstName, birthDate, clubID); err != nil {
		return nil, mapError("adherent", err)
	}
	return &adherent, nil
}

func (r *adherentRepository) ListForClub(ctx context.Context, clubID uuid.UUID) ([]*model.Adherent, error) {
	query := `SELECT ` + adherentColumns + ` FROM adherents WHERE club_id = $1 ORDER BY last_name, first_name`
	var adherents []*model.Adherent
	if err := r.GetDB().SelectContext(ctx, &adherents, query, clubID); err != nil {
		return nil, mapError("adherent", err)
	}
	return adherents, nil
}

func (r *adherentRepository) Update(ctx context.Context, adherent *model.Adherent) error {
	query := `
		UPDATE adherents
		SET last_name = $1, first_name = $2, birth_date = $3, gender = $4,
			email = $5, phone = $6, category_id = $7, active = $8, updated_at = $9
		WHERE id = $10
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		adherent.LastName,
		adherent.FirstName,
		adherent.BirthDate,
		adherent.Gender,
		adherent.Email,
		adherent.Phone,
		adherent.CategoryID,
		adherent.Active,
		time.Now(),
		adherent.ID,
	)
	return mapError("adherent", err)
}

func (r *adherentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM adherents WHERE id = $1`
	_, err := r.GetDB().ExecContext(ctx, query, id)
	return mapError("adherent", err)
}
