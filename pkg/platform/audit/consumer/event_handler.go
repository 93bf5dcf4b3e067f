package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"rigcheck/internal/platform/kafka/consumer"
	audit "rigcheck/pkg/platform/audit"
)

// EventHandler materialises relayed audit events into the queryable trail.
type EventHandler struct {
	store  audit.Materializer
	logger *slog.Logger
	alert  bool
}

type HandlerOption func(*EventHandler)

// WithAlerting logs every handled event at warn level. Registered for the security topic.
func WithAlerting() HandlerOption {
	return func(h *EventHandler) {
		h.alert = true
	}
}

func NewEventHandler(store audit.Materializer, logger *slog.Logger, opts ...HandlerOption) *EventHandler {
	h := &EventHandler{store: store, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle decodes and stores one event. Malformed payloads are logged and committed so
// they do not block the partition; storage failures are returned for retry.
func (h *EventHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var payload audit.Payload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal audit payload",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	eventID, event, err := payload.Event()
	if err != nil {
		h.logger.ErrorContext(ctx, "invalid audit payload",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		return err
	}
	if h.alert {
		h.logger.WarnContext(ctx, "security audit event",
			"event", event.Action,
			"actor_id", event.ActorID.String(),
			"station_id", event.StationID,
			"reason", event.Reason,
			"request_id", event.RequestID,
		)
	}
	return nil
}
