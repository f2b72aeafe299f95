package club

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/service/authz"
	"github.com/sportivai/federation-api/pkg/errors"
)

type Service struct {
	clubs     repository.ClubRepository
	adherents repository.AdherentRepository
	authz     *authz.Evaluator
}

func NewService(clubs repository.ClubRepository, adherents repository.AdherentRepository, evaluator *authz.Evaluator) *Service {
	return &Service{clubs: clubs, adherents: adherents, authz: evaluator}
}

func (s *Service) Get(ctx context.Context, actor *model.Principal, id uuid.UUID) (*model.Club, error) {
	if err := s.authz.CanAccess(actor, id, authz.OpRead); err != nil {
		return nil, err
	}
	return s.clubs.Get(ctx, id)
}

// List returns the federation's clubs. Club actors see only their own.
func (s *Service) List(ctx context.Context, actor *model.Principal) ([]*model.Club, error) {
	if actor.IsFederationAdmin() {
		if actor.FederationID == nil {
			return []*model.Club{}, nil
		}
		return s.clubs.ListForFederation(ctx, *actor.FederationID)
	}
	if actor.ClubID == nil {
		return nil, errors.Forbidden()
	}
	own, err := s.clubs.Get(ctx, *actor.ClubID)
	if err != nil {
		return nil, err
	}
	return []*model.Club{own}, nil
}

func (s *Service) ListAdherents(ctx context.Context, actor *model.Principal, clubID uuid.UUID) ([]*model.Adherent, error) {
	if err := s.authz.CanAccess(actor, clubID, authz.OpRead); err != nil {
		return nil, err
	}
	return s.adherents.ListForClub(ctx, clubID)
}

func (s *Service) CreateAdherent(ctx context.Context, actor *model.Principal, clubID uuid.UUID, req *model.CreateAdherentRequest) (*model.Adherent, error) {
	if err := s.authz.CanAccess(actor, clubID, authz.OpMutate); err != nil {
		return nil, err
	}

	adherent := &model.Adherent{
		Base:       model.Base{ID: uuid.New()},
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		BirthDate:  req.BirthDate,
		Gender:     req.Gender,
		Email:      req.Email,
		Phone:      req.Phone,
		ClubID:     clubID,
		CategoryID: req.CategoryID,
		Active:     true,
	}
	if err := s.adherents.Create(ctx, adherent); err != nil {
		return nil, fmt.Errorf("failed to create adherent: %w", err)
	}
	return adherent, nil
}
