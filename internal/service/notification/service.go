package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/internal/repository"
	"github.com/sportivai/federation-api/internal/ws"
	"github.com/sportivai/federation-api/pkg/messaging"
	"github.com/sportivai/federation-api/pkg/metrics"
)

// DefaultPageSize bounds the notification list endpoint. No cursor is
// modeled beyond this cap.
const DefaultPageSize = 20

// BrokerChannel is the pub/sub channel carrying notification events between
// instances.
const BrokerChannel = "notifications"

// Service is the only component allowed to create notifications. Notify
// persists first (the source of truth), then attempts live delivery on a
// best-effort basis.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, category string, link *string) (*model.Notification, error)
	List(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo    repository.NotificationRepository
	hub     *ws.Hub
	broker  messaging.Broker
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

// NewService builds the dispatcher. broker may be nil for single-instance
// deployments: events then go straight to the local hub. With a broker, the
// publish reaches every instance's forwarder, this one included, so the local
// hub is not pushed directly (the event would arrive twice).
func NewService(repo repository.NotificationRepository, hub *ws.Hub, broker messaging.Broker, logger *zerolog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:    repo,
		hub:     hub,
		broker:  broker,
		logger:  logger,
		metrics: m,
	}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, title, message, category string, link *string) (*model.Notification, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user ID is required")
	}
	if title == "" || message == "" {
		return nil, fmt.Errorf("title and message are required")
	}

	notification := &model.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
		Link:     link,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.NotificationsCreated.Inc()
	}

	// Live delivery is fire-and-forget from here on: the row is durable,
	// offline clients catch up on their next list fetch.
	s.push(ctx, notification)

	return notification, nil
}

func (s *service) push(ctx context.Context, notification *model.Notification) {
	event := notification.Event()

	if s.broker != nil {
		if err := s.broker.Publish(ctx, BrokerChannel, event); err != nil {
			s.logger.Warn().Err(err).
				Str("notification_id", notification.ID.String()).
				Msg("broker publish failed, falling back to local delivery")
		} else {
			return
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal notification event")
		return
	}
	s.hub.Send(notification.UserID, payload)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return s.repo.ListForUser(ctx, userID, DefaultPageSize)
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
