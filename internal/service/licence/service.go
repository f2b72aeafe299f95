package licence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/service/authz"
	"github.com/sportivai/federation-api/internal/service/notification"
	"github.com/sportivai/federation-api/internal/service/season"
	"github.com/sportivai/federation-api/pkg/errors"
	"github.com/sportivai/federation-api/pkg/hook"
	"github.com/sportivai/federation-api/pkg/identifier"
	"github.com/sportivai/federation-api/pkg/metrics"
)

// transitions is the licence graph. Anything absent fails with a
// TransitionError naming the attempted pair; validated and rejected are
// terminal.
var transitions = map[model.LicenceStatus][]model.LicenceStatus{
	model.LicenceStatusDraft:     {model.LicenceStatusSubmitted},
	model.LicenceStatusSubmitted: {model.LicenceStatusValidated, model.LicenceStatusRejected},
}

func allowed(from, to model.LicenceStatus) bool {
	for _, dest := range transitions[from] {
		if dest == to {
			return true
		}
	}
	return false
}

type Service struct {
	repo         repository.LicenceRepository
	adherentRepo repository.AdherentRepository
	seasonSvc    *season.Service
	authz        *authz.Evaluator
	notifSvc     notification.Service
	logger       *zerolog.Logger
	metrics      *metrics.Metrics
}

func NewService(
	repo repository.LicenceRepository,
	adherentRepo repository.AdherentRepository,
	seasonSvc *season.Service,
	evaluator *authz.Evaluator,
	notifSvc notification.Service,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:         repo,
		adherentRepo: adherentRepo,
		seasonSvc:    seasonSvc,
		authz:        evaluator,
		notifSvc:     notifSvc,
		logger:       logger,
		metrics:      m,
	}
}

// Create opens a licence in draft for the club's adherent, reusing an
// existing adherent row when the same person re-applies. A second licence for
// the same (adherent, season) surfaces the storage conflict untouched: that
// is a legitimate business conflict, not a race to retry.
func (s *Service) Create(ctx context.Context, actor *model.Principal, req *model.CreateLicenceRequest) (*model.Licence, error) {
	if err := s.authz.CanAccess(actor, req.ClubID, authz.OpMutate); err != nil {
		return nil, err
	}
	if actor.FederationID == nil {
		return nil, errors.BadRequest("no federation assigned", nil)
	}

	activeSeason, err := s.seasonSvc.Active(ctx, *actor.FederationID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.BadRequest("no active season", err)
		}
		return nil, err
	}

	adherent, err := s.resolveAdherent(ctx, req)
	if err != nil {
		return nil, err
	}

	licence := &model.Licence{
		ID:          uuid.New(),
		Status:      model.LicenceStatusDraft,
		RequestType: req.RequestType,
		LastName:    req.LastName,
		FirstName:   req.FirstName,
		BirthDate:   req.BirthDate,
		CategoryID:  req.CategoryID,
		ClubID:      req.ClubID,
		SeasonID:    activeSeason.ID,
		AdherentID:  adherent.ID,
	}

	if err := s.repo.Create(ctx, licence); err != nil {
		if errors.IsConflict(err) {
			return nil, errors.Conflict("licence already exists for this adherent this season", err)
		}
		return nil, fmt.Errorf("failed to create licence: %w", err)
	}

	return licence, nil
}

func (s *Service) resolveAdherent(ctx context.Context, req *model.CreateLicenceRequest) (*model.Adherent, error) {
	if req.AdherentID != nil {
		return s.adherentRepo.Get(ctx, *req.AdherentID)
	}

	birthDate := req.BirthDate.Format("2006-01-02")
	adherent, err := s.adherentRepo.FindByIdentity(ctx, req.LastName, req.FirstName, birthDate, req.ClubID)
	if err == nil {
		return adherent, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	adherent = &model.Adherent{
		Base:       model.Base{ID: uuid.New()},
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		BirthDate:  req.BirthDate,
		ClubID:     req.ClubID,
		CategoryID: &req.CategoryID,
		Active:     true,
	}
	if err := s.adherentRepo.Create(ctx, adherent); err != nil {
		return nil, fmt.Errorf("failed to create adherent: %w", err)
	}
	return adherent, nil
}

// Submit moves draft -> submitted for the owning club.
func (s *Service) Submit(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Licence, error) {
	licence, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccess(actor, licence.ClubID, authz.OpMutate); err != nil {
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, id, func(l *model.Licence) error {
		if !allowed(l.Status, model.LicenceStatusSubmitted) {
			return errors.Transition(string(l.Status), string(model.LicenceStatusSubmitted))
		}
		now := time.Now()
		l.Status = model.LicenceStatusSubmitted
		l.SubmittedAt = &now
		return nil
	})
	if err != nil {
		s.countError()
		return nil, err
	}

	s.countTransition(model.LicenceStatusSubmitted)
	return updated, nil
}

// Validate moves submitted -> validated and assigns the licence number.
// Federation admin only. The number is generated once per attempt; a
// collision on the unique index gets exactly one retry with a fresh code.
func (s *Service) Validate(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Licence, error) {
	licence, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccess(actor, licence.ClubID, authz.OpReview); err != nil {
		return nil, err
	}

	updated, err := s.validateOnce(ctx, id)
	if errors.IsConflict(err) {
		updated, err = s.validateOnce(ctx, id)
	}
	if err != nil {
		s.countError()
		return nil, err
	}

	s.countTransition(model.LicenceStatusValidated)

	var hooks hook.Hooks
	hooks.Add(func(ctx context.Context) error {
		link := fmt.Sprintf("/clubs/%s/licences?status=validated", updated.ClubID)
		_, err := s.notifSvc.Notify(ctx, actor.UserID,
			"Licence validated",
			fmt.Sprintf("The licence of %s %s has been validated", updated.LastName, updated.FirstName),
			model.NotificationCategoryLicence,
			&link,
		)
		return err
	})
	hooks.Run(ctx, s.logger)

	return updated, nil
}

func (s *Service) validateOnce(ctx context.Context, id uuid.UUID) (*model.Licence, error) {
	number := identifier.NextLicenseNumber()
	return s.repo.Transition(ctx, id, func(l *model.Licence) error {
		if !allowed(l.Status, model.LicenceStatusValidated) {
			return errors.Transition(string(l.Status), string(model.LicenceStatusValidated))
		}
		now := time.Now()
		l.Status = model.LicenceStatusValidated
		l.Number = &number
		l.ValidatedAt = &now
		return nil
	})
}

// Reject moves submitted -> rejected. Federation admin only; the reason is
// mandatory.
func (s *Service) Reject(ctx context.Context, actor *model.Principal, id uuid.UUID, reason string) (*model.Licence, error) {
	licence, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccess(actor, licence.ClubID, authz.OpReview); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, errors.TransitionRequires(string(licence.Status), string(model.LicenceStatusRejected), "a rejection reason")
	}

	updated, err := s.repo.Transition(ctx, id, func(l *model.Licence) error {
		if !allowed(l.Status, model.LicenceStatusRejected) {
			return errors.Transition(string(l.Status), string(model.LicenceStatusRejected))
		}
		now := time.Now()
		l.Status = model.LicenceStatusRejected
		l.RejectionReason = &reason
		l.RefusedAt = &now
		return nil
	})
	if err != nil {
		s.countError()
		return nil, err
	}

	s.countTransition(model.LicenceStatusRejected)

	var hooks hook.Hooks
	hooks.Add(func(ctx context.Context) error {
		_, err := s.notifSvc.Notify(ctx, actor.UserID,
			"Licence rejected",
			fmt.Sprintf("The licence of %s %s has been rejected: %s", updated.LastName, updated.FirstName, reason),
			model.NotificationCategoryLicence,
			nil,
		)
		return err
	})
	hooks.Run(ctx, s.logger)

	return updated, nil
}

// Update edits identity fields; draft only.
func (s *Service) Update(ctx context.Context, actor *model.Principal, id uuid.UUID, req *model.UpdateLicenceRequest) (*model.Licence, error) {
	licence, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccess(actor, licence.ClubID, authz.OpMutate); err != nil {
		return nil, err
	}
	if !licence.Editable() {
		return nil, errors.BadRequest("licence can no longer be modified", nil)
	}

	if req.LastName != nil {
		licence.LastName = *req.LastName
	}
	if req.FirstName != nil {
		licence.FirstName = *req.FirstName
	}
	if req.BirthDate != nil {
		licence.BirthDate = *req.BirthDate
	}
	if req.CategoryID != nil {
		licence.CategoryID = *req.CategoryID
	}

	if err := s.repo.Update(ctx, licence); err != nil {
		return nil, fmt.Errorf("failed to update licence: %w", err)
	}
	return licence, nil
}

// Delete removes a licence; draft only. Once submitted a licence is part of
// the federation's record and never hard-deleted.
func (s *Service) Delete(ctx context.Context, actor *model.Principal, id uuid.UUID) error {
	licence, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanAccess(actor, licence.ClubID, authz.OpMutate); err != nil {
		return err
	}
	if !licence.Editable() {
		return errors.BadRequest("only draft licences can be deleted", nil)
	}
	return s.repo.Delete(ctx, id)
}

// Get returns one licence after a scope check.
func (s *Service) Get(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Licence, error) {
	licence, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccess(actor, licence.ClubID, authz.OpRead); err != nil {
		return nil, err
	}
	return licence, nil
}

// List returns licences visible to the actor: the whole federation for an
// admin, the actor's own club otherwise.
func (s *Service) List(ctx context.Context, actor *model.Principal, filters *model.LicenceFilters) ([]*model.Licence, error) {
	if actor.IsFederationAdmin() {
		if actor.FederationID == nil {
			return []*model.Licence{}, nil
		}
		return s.repo.ListForFederation(ctx, *actor.FederationID, filters)
	}
	if actor.ClubID == nil {
		return nil, errors.Forbidden()
	}
	if filters == nil {
		filters = &model.LicenceFilters{}
	}
	filters.ClubID = actor.ClubID
	return s.repo.List(ctx, filters)
}

func (s *Service) countTransition(to model.LicenceStatus) {
	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues("licence", string(to)).Inc()
	}
}

func (s *Service) countError() {
	if s.metrics != nil {
		s.metrics.TransitionErrors.WithLabelValues("licence").Inc()
	}
}
