package demande

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/service/authz"
	"github.com/sportivai/federation-api/pkg/errors"
)

type fakeDemandeRepo struct {
	demandes map[uuid.UUID]*model.Demande
}

func newFakeDemandeRepo() *fakeDemandeRepo {
	return &fakeDemandeRepo{demandes: make(map[uuid.UUID]*model.Demande)}
}

func (r *fakeDemandeRepo) Create(ctx context.Context, d *model.Demande) error {
	r.demandes[d.ID] = d
	return nil
}

func (r *fakeDemandeRepo) Get(ctx context.Context, id uuid.UUID) (*model.Demande, error) {
	d, ok := r.demandes[id]
	if !ok {
		return nil, errors.NotFound("demande", nil)
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDemandeRepo) List(ctx context.Context) ([]*model.Demande, error) {
	var out []*model.Demande
	for _, d := range r.demandes {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDemandeRepo) ListForClub(ctx context.Context, clubID uuid.UUID) ([]*model.Demande, error) {
	var out []*model.Demande
	for _, d := range r.demandes {
		if d.ClubID == clubID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDemandeRepo) Transition(ctx context.Context, id uuid.UUID, apply func(*model.Demande) error) (*model.Demande, error) {
	d, ok := r.demandes[id]
	if !ok {
		return nil, errors.NotFound("demande", nil)
	}
	cp := *d
	if err := apply(&cp); err != nil {
		return nil, err
	}
	r.demandes[id] = &cp
	return &cp, nil
}

var _ repository.DemandeRepository = (*fakeDemandeRepo)(nil)

type fakeNotifier struct {
	sent []*model.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message, category string, link *string) (*model.Notification, error) {
	created := &model.Notification{ID: uuid.New(), UserID: userID, Title: title, Message: message, Category: category}
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

type fixture struct {
	svc      *Service
	repo     *fakeDemandeRepo
	notifier *fakeNotifier
	fedID    uuid.UUID
	clubID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	repo := newFakeDemandeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, authz.NewEvaluator(), notifier, &logger, nil)
	return &fixture{svc: svc, repo: repo, notifier: notifier, fedID: uuid.New(), clubID: uuid.New()}
}

func (f *fixture) clubActor() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Role: model.RoleClubManager, ClubID: &f.clubID, FederationID: &f.fedID}
}

func (f *fixture) adminActor() *model.Principal {
	return &model.Principal{UserID: uuid.New(), Role: model.RoleFederationAdmin, FederationID: &f.fedID}
}

func (f *fixture) seed(status model.DemandeStatus) *model.Demande {
	d := &model.Demande{
		ID:     uuid.New(),
		Type:   "transfer",
		Status: status,
		UserID: uuid.New(),
		ClubID: f.clubID,
	}
	f.repo.demandes[d.ID] = d
	return d
}

func TestCreateDemande(t *testing.T) {
	f := newFixture(t)
	actor := f.clubActor()

	d, err := f.svc.Create(context.Background(), actor, &model.CreateDemandeRequest{Type: "transfer"})
	require.NoError(t, err)

	assert.Equal(t, model.DemandeStatusDraft, d.Status)
	assert.Equal(t, f.clubID, d.ClubID)
	assert.Equal(t, actor.UserID, d.UserID)
}

func TestSubmitThenReview(t *testing.T) {
	f := newFixture(t)
	d := f.seed(model.DemandeStatusDraft)
	admin := f.adminActor()

	_, err := f.svc.Submit(context.Background(), f.clubActor(), d.ID)
	require.NoError(t, err)

	under, err := f.svc.SetStatus(context.Background(), admin, d.ID, &model.UpdateDemandeStatusRequest{Status: model.DemandeStatusUnderReview})
	require.NoError(t, err)
	assert.Equal(t, model.DemandeStatusUnderReview, under.Status)

	done, err := f.svc.SetStatus(context.Background(), admin, d.ID, &model.UpdateDemandeStatusRequest{Status: model.DemandeStatusValidated})
	require.NoError(t, err)
	assert.Equal(t, model.DemandeStatusValidated, done.Status)
	assert.NotNil(t, done.ValidatedAt)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Demande validated", f.notifier.sent[0].Title)
}

func TestRejectFromSubmitted(t *testing.T) {
	f := newFixture(t)
	d := f.seed(model.DemandeStatusSubmitted)
	comments := "incomplete file"

	done, err := f.svc.SetStatus(context.Background(), f.adminActor(), d.ID, &model.UpdateDemandeStatusRequest{
		Status:   model.DemandeStatusRejected,
		Comments: &comments,
	})
	require.NoError(t, err)

	assert.Equal(t, model.DemandeStatusRejected, done.Status)
	assert.NotNil(t, done.RefusedAt)
	require.NotNil(t, done.Comments)
	assert.Equal(t, comments, *done.Comments)
}

func TestValidateSkippingReviewRejected(t *testing.T) {
	f := newFixture(t)
	d := f.seed(model.DemandeStatusSubmitted)

	_, err := f.svc.SetStatus(context.Background(), f.adminActor(), d.ID, &model.UpdateDemandeStatusRequest{Status: model.DemandeStatusValidated})

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrTransition, appErr.Code)
}

func TestReviewDeniedToClubActor(t *testing.T) {
	f := newFixture(t)
	d := f.seed(model.DemandeStatusSubmitted)

	_, err := f.svc.SetStatus(context.Background(), f.clubActor(), d.ID, &model.UpdateDemandeStatusRequest{Status: model.DemandeStatusUnderReview})

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Equal(t, "access denied", appErr.Message)
}

func TestTerminalStatesFrozen(t *testing.T) {
	f := newFixture(t)
	admin := f.adminActor()

	for _, terminal := range []model.DemandeStatus{model.DemandeStatusValidated, model.DemandeStatusRejected} {
		d := f.seed(terminal)
		_, err := f.svc.SetStatus(context.Background(), admin, d.ID, &model.UpdateDemandeStatusRequest{Status: model.DemandeStatusUnderReview})

		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrTransition, appErr.Code)
	}
}

func TestListScope(t *testing.T) {
	f := newFixture(t)
	f.seed(model.DemandeStatusDraft)
	foreign := f.seed(model.DemandeStatusDraft)
	foreign.ClubID = uuid.New()

	mine, err := f.svc.List(context.Background(), f.clubActor())
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.List(context.Background(), f.adminActor())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
