package consumer

import (
	"context"
	"log/slog"
	"strings"

	"rigcheck/internal/platform/kafka/consumer"
	audit "rigcheck/pkg/platform/audit"
)

// TopicHandler handles one consumed audit message.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// Router sends each message to the handler registered for its event category. Topics are
// named "<prefix>.<category>"; anything without a registered category goes to the fallback.
type Router struct {
	prefix   string
	byCat    map[audit.EventCategory]TopicHandler
	fallback TopicHandler
	logger   *slog.Logger
}

func NewRouter(prefix string, logger *slog.Logger, fallback TopicHandler) *Router {
	return &Router{
		prefix:   prefix,
		byCat:    make(map[audit.EventCategory]TopicHandler),
		fallback: fallback,
		logger:   logger,
	}
}

func (r *Router) Register(category audit.EventCategory, handler TopicHandler) {
	r.byCat[category] = handler
}

// category extracts the category from a topic under the router's prefix.
func (r *Router) category(topic string) (audit.EventCategory, bool) {
	rest, ok := strings.CutPrefix(topic, r.prefix+".")
	if !ok || rest == "" {
		return "", false
	}
	return audit.EventCategory(rest), true
}

func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	if cat, ok := r.category(msg.Topic); ok {
		if h, found := r.byCat[cat]; found {
			return h.Handle(ctx, msg)
		}
	}
	if r.fallback != nil {
		return r.fallback.Handle(ctx, msg)
	}
	r.logger.WarnContext(ctx, "audit message on unrouted topic dropped",
		"topic", msg.Topic,
		"offset", msg.Offset,
	)
	return nil
}
