// Package ws tracks live client connections per user identity and fans
// notification payloads out to them. The registry is owned by the service
// layer: constructed once in main and passed by handle, never reached through
// a global.
package ws

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sportivai/federation-api/internal/model"
	"github.com/sportivai/federation-api/pkg/messaging"
	"github.com/sportivai/federation-api/pkg/metrics"
)

// Channel is one live delivery endpoint. A user owns zero or more at a time
// (several devices or tabs). Implementations must tolerate Send after Close.
type Channel interface {
	Send(payload []byte) error
	Close() error
}

// shardCount stripes the user map so sends to one user never block unrelated
// users' connects and disconnects.
const shardCount = 16

type shard struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[Channel]struct{}
}

// Hub is the connection registry: a striped map from user identity to its
// set of live channels. It has no heartbeat of its own; dead channels are
// reaped only when their read path signals close or error.
type Hub struct {
	shards  [shardCount]*shard
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewHub(logger *zerolog.Logger, m *metrics.Metrics) *Hub {
	h := &Hub{logger: logger, metrics: m}
	for i := range h.shards {
		h.shards[i] = &shard{conns: make(map[uuid.UUID]map[Channel]struct{})}
	}
	return h
}

func (h *Hub) shardFor(userID uuid.UUID) *shard {
	hash := fnv.New32a()
	hash.Write(userID[:])
	return h.shards[hash.Sum32()%shardCount]
}

// Register adds a channel under the user's set, creating the set if absent.
func (h *Hub) Register(userID uuid.UUID, ch Channel) {
	s := h.shardFor(userID)
	s.mu.Lock()
	set, ok := s.conns[userID]
	if !ok {
		set = make(map[Channel]struct{})
		s.conns[userID] = set
	}
	set[ch] = struct{}{}
	s.mu.Unlock()

	if h.metrics != nil {
		h.metrics.LiveConnections.Inc()
	}
	h.logger.Debug().Str("user_id", userID.String()).Msg("connection registered")
}

// Unregister removes the channel; the user's entry disappears with its last
// channel. Unknown channels are ignored so close paths may call it twice.
func (h *Hub) Unregister(userID uuid.UUID, ch Channel) {
	s := h.shardFor(userID)
	s.mu.Lock()
	set, ok := s.conns[userID]
	removed := false
	if ok {
		if _, present := set[ch]; present {
			delete(set, ch)
			removed = true
		}
		if len(set) == 0 {
			delete(s.conns, userID)
		}
	}
	s.mu.Unlock()

	if removed {
		if h.metrics != nil {
			h.metrics.LiveConnections.Dec()
		}
		h.logger.Debug().Str("user_id", userID.String()).Msg("connection unregistered")
	}
}

// Send pushes payload to every channel registered for the user and returns
// how many pushes succeeded. One channel's failure never aborts delivery to
// its siblings and never surfaces to the caller.
func (h *Hub) Send(userID uuid.UUID, payload []byte) int {
	s := h.shardFor(userID)

	s.mu.RLock()
	channels := make([]Channel, 0, len(s.conns[userID]))
	for ch := range s.conns[userID] {
		channels = append(channels, ch)
	}
	s.mu.RUnlock()

	delivered := 0
	for _, ch := range channels {
		if err := ch.Send(payload); err != nil {
			if h.metrics != nil {
				h.metrics.NotificationsDelivery.WithLabelValues("failed").Inc()
			}
			h.logger.Debug().Err(err).Str("user_id", userID.String()).Msg("live push failed")
			continue
		}
		if h.metrics != nil {
			h.metrics.NotificationsDelivery.WithLabelValues("delivered").Inc()
		}
		delivered++
	}
	return delivered
}

// ConnectionCount returns the number of live channels for a user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	s := h.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns[userID])
}

// RunForwarder subscribes to the broker's notification channel and forwards
// each event to this instance's local connections. It returns when the
// context is cancelled or the subscription closes.
func (h *Hub) RunForwarder(ctx context.Context, broker messaging.Broker, channel string) error {
	events, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-events:
			if !ok {
				return nil
			}
			var event model.NotificationEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				h.logger.Warn().Err(err).Msg("dropping malformed notification event")
				continue
			}
			h.Send(event.UserID, raw)
		}
	}
}
