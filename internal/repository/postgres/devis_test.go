package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportivai/federation-api/internal/model"
	apperrors "github.com/sportivai/federation-api/pkg/errors"
)

var devisTestColumns = []string{
	"id", "reference", "status", "contact_name", "contact_email", "contact_phone",
	"organization_name", "organization_type", "message", "created_at", "processed_at",
}

func testDevis() *model.Devis {
	return &model.Devis{
		ID:           uuid.New(),
		Reference:    "REF-2026-0001",
		Status:       model.DevisStatusNew,
		ContactName:  "Jean Martin",
		ContactEmail: "jean@club.example",
	}
}

func devisRow(d *model.Devis) *sqlmock.Rows {
	return sqlmock.NewRows(devisTestColumns).AddRow(
		d.ID, d.Reference, d.Status, d.ContactName, d.ContactEmail, d.ContactPhone,
		d.OrganizationName, d.OrganizationType, d.Message, d.CreatedAt, d.ProcessedAt,
	)
}

func TestDevisRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDevisRepository(NewBaseRepository(db))

	d := testDevis()
	offerIDs := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO devis (")).
		WithArgs(d.ID, d.Reference, d.Status, d.ContactName, d.ContactEmail, d.ContactPhone,
			d.OrganizationName, d.OrganizationType, d.Message, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, offerID := range offerIDs {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO devis_items")).
			WithArgs(sqlmock.AnyArg(), d.ID, offerID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), d, offerIDs))
	require.Len(t, d.Items, 2)
	assert.Equal(t, offerIDs[0], d.Items[0].OfferID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDevisRepository_Create_DuplicateReference(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDevisRepository(NewBaseRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO devis (")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), testDevis(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDevisRepository_LatestReferenceForYear(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDevisRepository(NewBaseRepository(db))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT reference FROM devis WHERE reference LIKE $1")).
		WithArgs("REF-2026-%").
		WillReturnRows(sqlmock.NewRows([]string{"reference"}).AddRow("REF-2026-0041"))

	ref, err := repo.LatestReferenceForYear(context.Background(), "REF-2026-")
	require.NoError(t, err)
	assert.Equal(t, "REF-2026-0041", ref)
}

func TestDevisRepository_LatestReferenceForYear_FreshYear(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDevisRepository(NewBaseRepository(db))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT reference FROM devis WHERE reference LIKE $1")).
		WithArgs("REF-2027-%").
		WillReturnRows(sqlmock.NewRows([]string{"reference"}))

	ref, err := repo.LatestReferenceForYear(context.Background(), "REF-2027-")
	require.NoError(t, err)
	assert.Equal(t, "", ref)
}

func TestDevisRepository_Transition(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDevisRepository(NewBaseRepository(db))

	d := testDevis()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM devis WHERE id = $1 FOR UPDATE")).
		WithArgs(d.ID).
		WillReturnRows(devisRow(d))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE devis SET status = $1, processed_at = $2 WHERE id = $3")).
		WithArgs(model.DevisStatusAccepted, sqlmock.AnyArg(), d.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	now := time.Now()
	got, err := repo.Transition(context.Background(), d.ID, func(cur *model.Devis) error {
		cur.Status = model.DevisStatusAccepted
		cur.ProcessedAt = &now
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.DevisStatusAccepted, got.Status)
	require.NotNil(t, got.ProcessedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDevisRepository_Get_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDevisRepository(NewBaseRepository(db))

	mock.ExpectQuery(regexp.QuoteMeta("FROM devis WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(devisTestColumns))

	_, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
