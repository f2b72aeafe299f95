package demande

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
	"github.com/sportivai/federation-api/pkg/errors"
	"github.com/sportivai/federation-api/pkg/hook"
	"github.com/sportivai/federation-api/pkg/metrics"
)

// transitions for the demande workflow. under_review is the triage state a
// federation reviewer parks a submission in before deciding; validated and
// rejected are terminal.
var transitions = map[model.DemandeStatus][]model.DemandeStatus{
	model.DemandeStatusDraft:       {model.DemandeStatusSubmitted},
	model.DemandeStatusSubmitted:   {model.DemandeStatusUnderReview, model.DemandeStatusRejected},
	model.DemandeStatusUnderReview: {model.DemandeStatusValidated, model.DemandeStatusRejected},
}

func allowed(from, to model.DemandeStatus) bool {
	for _, dest := range transitions[from] {
		if dest == to {
			return true
		}
	}
	return false
}

// reviewStates are destinations only a federation admin may set.
var reviewStates = map[model.DemandeStatus]bool{
	model.DemandeStatusUnderReview: true,
	model.DemandeStatusValidated:   true,
	model.DemandeStatusRejected:    true,
}

type Service struct {
	repo     repository.DemandeRepository
	authz    *authz.Evaluator
	notifSvc notification.Service
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.DemandeRepository,
	evaluator *authz.Evaluator,
	notifSvc notification.Service,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		authz:    evaluator,
		notifSvc: notifSvc,
		logger:   logger,
		metrics:  m,
	}
}

// Create opens a demande in draft, owned by the actor's club.
func (s *Service) Create(ctx context.Context, actor *model.Principal, req *model.CreateDemandeRequest) (*model.Demande, error) {
	if actor == nil || actor.ClubID == nil {
		return nil, errors.Forbidden()
	}
	if err := s.authz.CanAccess(actor, *actor.ClubID, authz.OpMutate); err != nil {
		return nil, err
	}

	demande := &model.Demande{
		ID:        uuid.New(),
		Type:      req.Type,
		Status:    model.DemandeStatusDraft,
		Comments:  req.Comments,
		UserID:    actor.UserID,
		ClubID:    *actor.ClubID,
		LicenceID: req.LicenceID,
	}
	if err := s.repo.Create(ctx, demande); err != nil {
		return nil, fmt.Errorf("failed to create demande: %w", err)
	}
	return demande, nil
}

func (s *Service) Get(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Demande, error) {
	demande, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccess(actor, demande.ClubID, authz.OpRead); err != nil {
		return nil, err
	}
	return demande, nil
}

// List returns every demande for an admin, the actor's club otherwise.
func (s *Service) List(ctx context.Context, actor *model.Principal) ([]*model.Demande, error) {
	if actor.IsFederationAdmin() {
		return s.repo.List(ctx)
	}
	if actor.ClubID == nil {
		return nil, errors.Forbidden()
	}
	return s.repo.ListForClub(ctx, *actor.ClubID)
}

// Submit moves draft -> submitted for the owning club.
func (s *Service) Submit(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Demande, error) {
	return s.transition(ctx, actor, id, model.DemandeStatusSubmitted, nil)
}

// SetStatus applies a reviewer decision. Destinations past submitted are
// federation-gated through OpReview.
func (s *Service) SetStatus(ctx context.Context, actor *model.Principal, id uuid.UUID, req *model.UpdateDemandeStatusRequest) (*model.Demande, error) {
	return s.transition(ctx, actor, id, req.Status, req.Comments)
}

func (s *Service) transition(ctx context.Context, actor *model.Principal, id uuid.UUID, to model.DemandeStatus, comments *string) (*model.Demande, error) {
	demande, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	op := authz.OpMutate
	if reviewStates[to] {
		op = authz.OpReview
	}
	if err := s.authz.CanAccess(actor, demande.ClubID, op); err != nil {
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, id, func(d *model.Demande) error {
		if !allowed(d.Status, to) {
			return errors.Transition(string(d.Status), string(to))
		}
		now := time.Now()
		d.Status = to
		d.ModifiedAt = &now
		if comments != nil {
			d.Comments = comments
		}
		switch to {
		case model.DemandeStatusSubmitted:
			d.SubmittedAt = &now
		case model.DemandeStatusValidated:
			d.ValidatedAt = &now
		case model.DemandeStatusRejected:
			d.RefusedAt = &now
		}
		return nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.TransitionErrors.WithLabelValues("demande").Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues("demande", string(to)).Inc()
	}

	if to == model.DemandeStatusValidated || to == model.DemandeStatusRejected {
		var hooks hook.Hooks
		hooks.Add(func(ctx context.Context) error {
			title := "Demande validated"
			if to == model.DemandeStatusRejected {
				title = "Demande rejected"
			}
			_, err := s.notifSvc.Notify(ctx, updated.UserID,
				title,
				fmt.Sprintf("Your %s demande is now %s", updated.Type, to),
				model.NotificationCategoryDemande,
				nil,
			)
			return err
		})
		hooks.Run(ctx, s.logger)
	}

	return updated, nil
}
