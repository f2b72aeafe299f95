package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

type devisRepository struct {
	*BaseRepository
}

func NewDevisRepository(base *BaseRepository) repository.DevisRepository {
	return &devisRepository{BaseRepository: base}
}

const devisColumns = `id, reference, status, contact_name, contact_email, contact_phone,
		organization_name, organization_type, message, created_at, processed_at`

// Create inserts the devis and its offer links in one transaction. A
// duplicate reference surfaces as ConflictError; the service retries the
// reference generation once.
func (r *devisRepository) Create(ctx context.Context, devis *model.Devis, offerIDs []uuid.UUID) error {
	devis.CreatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO devis (id, reference, status, contact_name, contact_email, contact_phone,
				organization_name, organization_type, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, query,
			devis.ID,
			devis.Reference,
			devis.Status,
			devis.ContactName,
			devis.ContactEmail,
			devis.ContactPhone,
			devis.OrganizationName,
			devis.OrganizationType,
			devis.Message,
			devis.CreatedAt,
		); err != nil {
			return mapError("devis", err)
		}

		for _, offerID := range offerIDs {
			item := &model.DevisItem{ID: uuid.New(), DevisID: devis.ID, OfferID: offerID}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO devis_items (id, devis_id, offer_id) VALUES ($1, $2, $3)`,
				item.ID, item.DevisID, item.OfferID,
			); err != nil {
				return mapError("devis item", err)
			}
			devis.Items = append(devis.Items, item)
		}
		return nil
	})
}

func (r *devisRepository) Get(ctx context.Context, id uuid.UUID) (*model.Devis, error) {
	query := `SELECT ` + devisColumns + ` FROM devis WHERE id = $1`
	var devis model.Devis
	if err := r.GetDB().GetContext(ctx, &devis, query, id); err != nil {
		return nil, mapError("devis", err)
	}
	if err := r.loadItems(ctx, &devis); err != nil {
		return nil, err
	}
	return &devis, nil
}

func (r *devisRepository) List(ctx context.Context) ([]*model.Devis, error) {
	query := `SELECT ` + devisColumns + ` FROM devis ORDER BY created_at DESC`
	var list []*model.Devis
	if err := r.GetDB().SelectContext(ctx, &list, query); err != nil {
		return nil, mapError("devis", err)
	}
	for _, d := range list {
		if err := r.loadItems(ctx, d); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *devisRepository) loadItems(ctx context.Context, devis *model.Devis) error {
	query := `
		SELECT i.id, i.devis_id, i.offer_id, o.name AS offer_name
		FROM devis_items i
		JOIN offers o ON o.id = i.offer_id
		WHERE i.devis_id = $1
	`
	if err := r.GetDB().SelectContext(ctx, &devis.Items, query, devis.ID); err != nil {
		return mapError("devis item", err)
	}
	return nil
}

// LatestReferenceForYear returns the highest existing reference matching the
// year prefix, or "" when the year is fresh. This is the deliberately
// best-effort half of reference generation; the unique index backstops it.
func (r *devisRepository) LatestReferenceForYear(ctx context.Context, prefix string) (string, error) {
	query := `SELECT reference FROM devis WHERE reference LIKE $1 ORDER BY reference DESC LIMIT 1`
	var reference string
	err := r.GetDB().GetContext(ctx, &reference, query, prefix+"%")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", mapError("devis", err)
	}
	return reference, nil
}

func (r *devisRepository) Transition(ctx context.Context, id uuid.UUID, apply func(*model.Devis) error) (*model.Devis, error) {
	var devis model.Devis
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT ` + devisColumns + ` FROM devis WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &devis, query, id); err != nil {
			return mapError("devis", err)
		}

		if err := apply(&devis); err != nil {
			return err
		}

		update := `UPDATE devis SET status = $1, processed_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, update, devis.Status, devis.ProcessedAt, devis.ID); err != nil {
			return mapError("devis", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &devis, nil
}
