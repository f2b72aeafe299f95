package season

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
)

// The active season changes once a year; a short TTL keeps the licence
// creation path off the database without making activation feel stale.
const (
	cacheTTL   = 5 * time.Minute
	cachePurge = 10 * time.Minute
)

type Service struct {
	repo  repository.SeasonRepository
	cache *gocache.Cache
}

func NewService(repo repository.SeasonRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cachePurge),
	}
}

// Active returns the federation's active season, from cache when fresh.
func (s *Service) Active(ctx context.Context, federationID uuid.UUID) (*model.Season, error) {
	key := federationID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Season), nil
	}

	season, err := s.repo.ActiveForFederation(ctx, federationID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, season, gocache.DefaultExpiration)
	return season, nil
}
