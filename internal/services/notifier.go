package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxhealth/voxhealth-backend/internal/clients/redis"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

// Notifier fans realtime events out to SSE subscribers. When a redis
// bus is configured, events also cross instance boundaries; without it
// delivery is local to this process.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any)
}

type notifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redis.EventBus
}

func NewNotifier(log *logger.Logger, hub *sse.Hub, bus redis.EventBus) Notifier {
	return &notifier{
		log: log.With("service", "Notifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *notifier) Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any) {
	msg := sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   event,
		Data:    data,
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Failed to publish event to redis; delivering locally", "event", event, "error", err)
			n.hub.Broadcast(msg)
		}
		return
	}
	n.hub.Broadcast(msg)
}
