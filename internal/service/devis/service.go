package devis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/service/authz"
	"github.com/sportivai/federation-api/pkg/errors"
	"github.com/sportivai/federation-api/pkg/hook"
	"github.com/sportivai/federation-api/pkg/identifier"
	"github.com/sportivai/federation-api/pkg/metrics"
)

// Mailer sends the confirmation a prospect receives after filing a quote
// request. A nil Mailer disables the send without failing anything.
type Mailer interface {
	SendDevisConfirmation(ctx context.Context, devis *model.Devis) error
}

type Service struct {
	repo    repository.DevisRepository
	offers  repository.OfferRepository
	authz   *authz.Evaluator
	mailer  Mailer
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewService(
	repo repository.DevisRepository,
	offers repository.OfferRepository,
	evaluator *authz.Evaluator,
	mailer Mailer,
	logger *zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:    repo,
		offers:  offers,
		authz:   evaluator,
		mailer:  mailer,
		logger:  logger,
		metrics: m,
	}
}

// Create registers a quote request from the public site. No authentication:
// the caller is a prospect, not a member. The reference continues this
// year's sequence; when a concurrent insert wins the same slot, one retry
// rescans before giving up.
func (s *Service) Create(ctx context.Context, req *model.CreateDevisRequest) (*model.Devis, error) {
	for _, offerID := range req.OfferIDs {
		if _, err := s.offers.Get(ctx, offerID); err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.BadRequest(fmt.Sprintf("unknown offer %s", offerID), err)
			}
			return nil, err
		}
	}

	devis, err := s.createOnce(ctx, req)
	if errors.IsConflict(err) {
		devis, err = s.createOnce(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		var hooks hook.Hooks
		hooks.Add(func(ctx context.Context) error {
			return s.mailer.SendDevisConfirmation(ctx, devis)
		})
		hooks.Run(ctx, s.logger)
	}

	return devis, nil
}

func (s *Service) createOnce(ctx context.Context, req *model.CreateDevisRequest) (*model.Devis, error) {
	reference, err := s.nextReference(ctx)
	if err != nil {
		return nil, err
	}

	devis := &model.Devis{
		ID:               uuid.New(),
		Reference:        reference,
		Status:           model.DevisStatusNew,
		ContactName:      req.ContactName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		OrganizationName: req.OrganizationName,
		OrganizationType: req.OrganizationType,
		Message:          req.Message,
	}
	if err := s.repo.Create(ctx, devis, req.OfferIDs); err != nil {
		return nil, err
	}
	return devis, nil
}

// nextReference derives the next sequence from the highest reference stored
// for the current year. The scan is best effort; the unique index on
// reference is what actually guarantees no duplicates.
func (s *Service) nextReference(ctx context.Context) (string, error) {
	year := time.Now().Year()
	latest, err := s.repo.LatestReferenceForYear(ctx, identifier.QuoteReferencePrefix(year))
	if err != nil && !errors.IsNotFound(err) {
		return "", fmt.Errorf("failed to scan quote references: %w", err)
	}
	return identifier.QuoteReference(year, identifier.NextSequence(latest)), nil
}

// Get returns one devis with its items. Federation admin only.
func (s *Service) Get(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Devis, error) {
	if err := s.authz.RequireFederationAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// List returns every devis, newest first. Federation admin only.
func (s *Service) List(ctx context.Context, actor *model.Principal) ([]*model.Devis, error) {
	if err := s.authz.RequireFederationAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// SetStatus moves a devis between triage states. Any of the four values is
// reachable from any other; accepted and refused stamp ProcessedAt, and
// moving back out of them clears it.
func (s *Service) SetStatus(ctx context.Context, actor *model.Principal, id uuid.UUID, to model.DevisStatus) (*model.Devis, error) {
	if err := s.authz.RequireFederationAdmin(actor); err != nil {
		return nil, err
	}
	if !model.ValidDevisStatus(to) {
		return nil, errors.BadRequest(fmt.Sprintf("unknown status %q", to), nil)
	}

	updated, err := s.repo.Transition(ctx, id, func(d *model.Devis) error {
		d.Status = to
		switch to {
		case model.DevisStatusAccepted, model.DevisStatusRefused:
			now := time.Now()
			d.ProcessedAt = &now
		default:
			d.ProcessedAt = nil
		}
		return nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.TransitionErrors.WithLabelValues("devis").Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues("devis", string(to)).Inc()
	}
	return updated, nil
}

// Offers lists the active pricing plans shown on the public quote form.
func (s *Service) Offers(ctx context.Context) ([]*model.Offer, error) {
	return s.offers.ListActive(ctx)
}
