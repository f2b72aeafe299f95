package licence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/service/authz"
	"github.com/sportivai/federation-api/internal/service/notification"
	"github.com/sportivai/federation-api/internal/service/season"
	"github.com/sportivai/federation-api/pkg/errors"
	"github.com/sportivai/federation-api/pkg/identifier"
)

type fakeLicenceRepo struct {
	licences       map[uuid.UUID]*model.Licence
	createErr      error
	conflictOnce   bool
	transitionRuns int
}

func newFakeLicenceRepo() *fakeLicenceRepo {
	return &fakeLicenceRepo{licences: make(map[uuid.UUID]*model.Licence)}
}

func (r *fakeLicenceRepo) Create(ctx context.Context, l *model.Licence) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.licences[l.ID] = l
	return nil
}

func (r *fakeLicenceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Licence, error) {
	l, ok := r.licences[id]
	if !ok {
		return nil, errors.NotFound("licence", nil)
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLicenceRepo) Update(ctx context.Context, l *model.Licence) error {
	r.licences[l.ID] = l
	return nil
}

func (r *fakeLicenceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.licences, id)
	return nil
}

func (r *fakeLicenceRepo) List(ctx context.Context, f *model.LicenceFilters) ([]*model.Licence, error) {
	var out []*model.Licence
	for _, l := range r.licences {
		if f != nil && f.ClubID != nil && l.ClubID != *f.ClubID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLicenceRepo) ListForFederation(ctx context.Context, federationID uuid.UUID, f *model.LicenceFilters) ([]*model.Licence, error) {
	var out []*model.Licence
	for _, l := range r.licences {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLicenceRepo) Transition(ctx context.Context, id uuid.UUID, apply func(*model.Licence) error) (*model.Licence, error) {
	r.transitionRuns++
	l, ok := r.licences[id]
	if !ok {
		return nil, errors.NotFound("licence", nil)
	}
	cp := *l
	if err := apply(&cp); err != nil {
		return nil, err
	}
	if r.conflictOnce {
		r.conflictOnce = false
		return nil, errors.Conflict("licence number already assigned", nil)
	}
	r.licences[id] = &cp
	return &cp, nil
}

type fakeAdherentRepo struct {
	byIdentity map[string]*model.Adherent
	created    []*model.Adherent
}

func newFakeAdherentRepo() *fakeAdherentRepo {
	return &fakeAdherentRepo{byIdentity: make(map[string]*model.Adherent)}
}

func identityKey(last, first, birth string) string {
	return last + "|" + first + "|" + birth
}

func (r *fakeAdherentRepo) Create(ctx context.Context, a *model.Adherent) error {
	r.created = append(r.created, a)
	r.byIdentity[identityKey(a.LastName, a.FirstName, a.BirthDate.Format("2006-01-02"))] = a
	return nil
}

func (r *fakeAdherentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Adherent, error) {
	for _, a := range r.byIdentity {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errors.NotFound("adherent", nil)
}

func (r *fakeAdherentRepo) Update(ctx context.Context, a *model.Adherent) error { return nil }

func (r *fakeAdherentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeAdherentRepo) ListForClub(ctx context.Context, clubID uuid.UUID) ([]*model.Adherent, error) {
	return nil, nil
}

func (r *fakeAdherentRepo) FindByIdentity(ctx context.Context, lastName, firstName, birthDate string, clubID uuid.UUID) (*model.Adherent, error) {
	a, ok := r.byIdentity[identityKey(lastName, firstName, birthDate)]
	if !ok {
		return nil, errors.NotFound("adherent", nil)
	}
	return a, nil
}

type fakeSeasonRepo struct {
	active *model.Season
}

func (r *fakeSeasonRepo) ActiveForFederation(ctx context.Context, federationID uuid.UUID) (*model.Season, error) {
	if r.active == nil {
		return nil, errors.NotFound("season", nil)
	}
	return r.active, nil
}

type fakeNotifier struct {
	sent []*model.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message, category string, link *string) (*model.Notification, error) {
	created := &model.Notification{ID: uuid.New(), UserID: userID, Title: title, Message: message, Category: category, Link: link}
	n.sent = append(n.sent, created)
	return created, nil
}

func (n *fakeNotifier) List(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (n *fakeNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) error { return nil }

func (n *fakeNotifier) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

var _ notification.Service = (*fakeNotifier)(nil)
var _ repository.LicenceRepository = (*fakeLicenceRepo)(nil)
var _ repository.AdherentRepository = (*fakeAdherentRepo)(nil)
var _ repository.SeasonRepository = (*fakeSeasonRepo)(nil)

type fixture struct {
	svc       *Service
	repo      *fakeLicenceRepo
	adherents *fakeAdherentRepo
	notifier  *fakeNotifier
	fedID     uuid.UUID
	clubID    uuid.UUID
	seasonID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fedID := uuid.New()
	seasonID := uuid.New()
	logger := zerolog.Nop()
	repo := newFakeLicenceRepo()
	adherents := newFakeAdherentRepo()
	notifier := &fakeNotifier{}
	seasons := season.NewService(&fakeSeasonRepo{active: &model.Season{
		Base:         model.Base{ID: seasonID},
		FederationID: fedID,
		Active:       true,
	}})
	svc := NewService(repo, adherents, seasons, authz.NewEvaluator(), notifier, &logger, nil)
	return &fixture{
		svc:       svc,
		repo:      repo,
		adherents: adherents,
		notifier:  notifier,
		fedID:     fedID,
		clubID:    uuid.New(),
		seasonID:  seasonID,
	}
}

func (f *fixture) clubActor() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Role: model.RoleClubManager, ClubID: &f.clubID, FederationID: &f.fedID}
}

func (f *fixture) adminActor() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Role: model.RoleFederationAdmin, FederationID: &f.fedID}
}

func (f *fixture) seed(status model.LicenceStatus) *model.Licence {
	l := &model.Licence{
		ID:        uuid.New(),
		Status:    status,
		LastName:  "Durand",
		FirstName: "Alice",
		ClubID:    f.clubID,
		SeasonID:  f.seasonID,
	}
	f.repo.licences[l.ID] = l
	return l
}

func createReq(clubID uuid.UUID) *model.CreateLicenceRequest {
	return &model.CreateLicenceRequest{
		LastName:    "Durand",
		FirstName:   "Alice",
		BirthDate:   time.Date(2008, 3, 14, 0, 0, 0, 0, time.UTC),
		CategoryID:  uuid.New(),
		ClubID:      clubID,
		RequestType: "creation",
	}
}

func TestCreateLicence(t *testing.T) {
	f := newFixture(t)

	licence, err := f.svc.Create(context.Background(), f.clubActor(), createReq(f.clubID))
	require.NoError(t, err)

	assert.Equal(t, model.LicenceStatusDraft, licence.Status)
	assert.Nil(t, licence.Number)
	assert.Equal(t, f.seasonID, licence.SeasonID)
	require.Len(t, f.adherents.created, 1, "a new adherent should be created")
	assert.Equal(t, f.adherents.created[0].ID, licence.AdherentID)
}

func TestCreateLicenceReusesAdherent(t *testing.T) {
	f := newFixture(t)
	existing := &model.Adherent{
		Base:      model.Base{ID: uuid.New()},
		LastName:  "Durand",
		FirstName: "Alice",
		BirthDate: time.Date(2008, 3, 14, 0, 0, 0, 0, time.UTC),
		ClubID:    f.clubID,
	}
	require.NoError(t, f.adherents.Create(context.Background(), existing))
	f.adherents.created = nil

	licence, err := f.svc.Create(context.Background(), f.clubActor(), createReq(f.clubID))
	require.NoError(t, err)

	assert.Equal(t, existing.ID, licence.AdherentID)
	assert.Empty(t, f.adherents.created, "matching adherent must be reused, not duplicated")
}

func TestCreateLicenceDuplicateSeason(t *testing.T) {
	f := newFixture(t)
	f.repo.createErr = errors.Conflict("duplicate key", nil)

	_, err := f.svc.Create(context.Background(), f.clubActor(), createReq(f.clubID))
	assert.True(t, errors.IsConflict(err))
}

func TestCreateLicenceForeignClubDenied(t *testing.T) {
	f := newFixture(t)
	otherClub := uuid.New()

	_, err := f.svc.Create(context.Background(), f.clubActor(), createReq(otherClub))

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestSubmitLicence(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusDraft)

	updated, err := f.svc.Submit(context.Background(), f.clubActor(), l.ID)
	require.NoError(t, err)

	assert.Equal(t, model.LicenceStatusSubmitted, updated.Status)
	assert.NotNil(t, updated.SubmittedAt)
}

func TestSubmitTwiceRejected(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)

	_, err := f.svc.Submit(context.Background(), f.clubActor(), l.ID)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrTransition, appErr.Code)
	assert.Contains(t, appErr.Message, `"submitted"`)
}

func TestValidateLicence(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)
	admin := f.adminActor()

	updated, err := f.svc.Validate(context.Background(), admin, l.ID)
	require.NoError(t, err)

	assert.Equal(t, model.LicenceStatusValidated, updated.Status)
	require.NotNil(t, updated.Number)
	assert.True(t, identifier.ValidLicenseNumber(*updated.Number))
	assert.NotNil(t, updated.ValidatedAt)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Licence validated", f.notifier.sent[0].Title)
}

func TestValidateRetriesOnNumberConflict(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)
	f.repo.conflictOnce = true

	updated, err := f.svc.Validate(context.Background(), f.adminActor(), l.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, f.repo.transitionRuns, "one retry after a number collision")
	require.NotNil(t, updated.Number)
}

func TestValidateDeniedToClubActor(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)

	_, err := f.svc.Validate(context.Background(), f.clubActor(), l.ID)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Equal(t, "access denied", appErr.Message)
}

func TestValidateDraftRejected(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusDraft)

	_, err := f.svc.Validate(context.Background(), f.adminActor(), l.ID)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrTransition, appErr.Code)
}

func TestRejectLicence(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)

	updated, err := f.svc.Reject(context.Background(), f.adminActor(), l.ID, "missing medical certificate")
	require.NoError(t, err)

	assert.Equal(t, model.LicenceStatusRejected, updated.Status)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "missing medical certificate", *updated.RejectionReason)
	assert.NotNil(t, updated.RefusedAt)
	require.Len(t, f.notifier.sent, 1)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)

	_, err := f.svc.Reject(context.Background(), f.adminActor(), l.ID, "")

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrTransition, appErr.Code)
	assert.Contains(t, appErr.Message, `"submitted"`)
	assert.Contains(t, appErr.Message, `"rejected"`)
}

func TestRejectTerminalState(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusRejected)

	_, err := f.svc.Reject(context.Background(), f.adminActor(), l.ID, "again")

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrTransition, appErr.Code)
}

func TestUpdateDraftOnly(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusSubmitted)
	name := "Martin"

	_, err := f.svc.Update(context.Background(), f.clubActor(), l.ID, &model.UpdateLicenceRequest{LastName: &name})

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

func TestUpdateDraft(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusDraft)
	name := "Martin"

	updated, err := f.svc.Update(context.Background(), f.clubActor(), l.ID, &model.UpdateLicenceRequest{LastName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Martin", updated.LastName)
}

func TestDeleteDraftOnly(t *testing.T) {
	f := newFixture(t)
	draft := f.seed(model.LicenceStatusDraft)
	submitted := f.seed(model.LicenceStatusSubmitted)
	actor := f.clubActor()

	require.NoError(t, f.svc.Delete(context.Background(), actor, draft.ID))

	err := f.svc.Delete(context.Background(), actor, submitted.ID)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

func TestListScopedToClub(t *testing.T) {
	f := newFixture(t)
	f.seed(model.LicenceStatusDraft)
	foreign := f.seed(model.LicenceStatusDraft)
	foreign.ClubID = uuid.New()

	out, err := f.svc.List(context.Background(), f.clubActor(), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	all, err := f.svc.List(context.Background(), f.adminActor(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetForeignClubDenied(t *testing.T) {
	f := newFixture(t)
	l := f.seed(model.LicenceStatusDraft)
	l.ClubID = uuid.New()

	_, err := f.svc.Get(context.Background(), f.clubActor(), l.ID)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Equal(t, "access denied", appErr.Message)
}
