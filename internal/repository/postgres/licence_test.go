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

var licenceTestColumns = []string{
	"id", "number", "status", "request_type", "last_name", "first_name", "birth_date",
	"category_id", "club_id", "season_id", "adherent_id",
	"created_at", "submitted_at", "validated_at", "refused_at", "rejection_reason",
}

func licenceRow(l *model.Licence) *sqlmock.Rows {
	return sqlmock.NewRows(licenceTestColumns).AddRow(
		l.ID, l.Number, l.Status, l.RequestType, l.LastName, l.FirstName, l.BirthDate,
		l.CategoryID, l.ClubID, l.SeasonID, l.AdherentID,
		l.CreatedAt, l.SubmittedAt, l.ValidatedAt, l.RefusedAt, l.RejectionReason,
	)
}

func testLicence() *model.Licence {
	return &model.Licence{
		ID:          uuid.New(),
		Status:      model.LicenceStatusDraft,
		RequestType: "creation",
		LastName:    "Durand",
		FirstName:   "Alice",
		BirthDate:   time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC),
		CategoryID:  uuid.New(),
		ClubID:      uuid.New(),
		SeasonID:    uuid.New(),
		AdherentID:  uuid.New(),
		CreatedAt:   time.Now(),
	}
}

func TestLicenceRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	l := testLicence()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO licences")).
		WithArgs(l.ID, l.Number, l.Status, l.RequestType, l.LastName, l.FirstName, l.BirthDate,
			l.CategoryID, l.ClubID, l.SeasonID, l.AdherentID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenceRepository_Create_DuplicateSeason(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO licences")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := repo.Create(context.Background(), testLicence())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestLicenceRepository_Get(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	l := testLicence()
	mock.ExpectQuery(regexp.QuoteMeta("FROM licences WHERE id = $1")).
		WithArgs(l.ID).
		WillReturnRows(licenceRow(l))

	got, err := repo.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, model.LicenceStatusDraft, got.Status)
}

func TestLicenceRepository_Get_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	mock.ExpectQuery(regexp.QuoteMeta("FROM licences WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(licenceTestColumns))

	_, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLicenceRepository_List_Filters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	l := testLicence()
	mock.ExpectQuery(regexp.QuoteMeta("AND club_id = $1 AND status = $2")).
		WithArgs(l.ClubID, model.LicenceStatusDraft).
		WillReturnRows(licenceRow(l))

	got, err := repo.List(context.Background(), &model.LicenceFilters{
		ClubID: &l.ClubID,
		Status: model.LicenceStatusDraft,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, l.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenceRepository_Transition(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	l := testLicence()
	l.Status = model.LicenceStatusSubmitted

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM licences WHERE id = $1 FOR UPDATE")).
		WithArgs(l.ID).
		WillReturnRows(licenceRow(l))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE licences")).
		WithArgs(model.LicenceStatusValidated, sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), l.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	number := "LC123456"
	now := time.Now()
	got, err := repo.Transition(context.Background(), l.ID, func(cur *model.Licence) error {
		cur.Status = model.LicenceStatusValidated
		cur.Number = &number
		cur.ValidatedAt = &now
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.LicenceStatusValidated, got.Status)
	require.NotNil(t, got.Number)
	assert.Equal(t, number, *got.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenceRepository_Transition_ApplyErrorRollsBack(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	l := testLicence()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM licences WHERE id = $1 FOR UPDATE")).
		WithArgs(l.ID).
		WillReturnRows(licenceRow(l))
	mock.ExpectRollback()

	wantErr := apperrors.Transition("draft", "validated")
	_, err := repo.Transition(context.Background(), l.ID, func(*model.Licence) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenceRepository_Transition_UniqueNumberConflict(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewLicenceRepository(NewBaseRepository(db))

	l := testLicence()
	l.Status = model.LicenceStatusSubmitted

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM licences WHERE id = $1 FOR UPDATE")).
		WithArgs(l.ID).
		WillReturnRows(licenceRow(l))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE licences")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	mock.ExpectRollback()

	number := "LC123456"
	_, err := repo.Transition(context.Background(), l.ID, func(cur *model.Licence) error {
		cur.Status = model.LicenceStatusValidated
		cur.Number = &number
		return nil
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
