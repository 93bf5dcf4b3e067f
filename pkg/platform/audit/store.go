package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store appends events. Implementations backed by a database write to the transactional
// outbox; the relay publishes them afterwards.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader queries materialised events.
type Reader interface {
	ListBySubject(ctx context.Context, subjectType, subjectID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Materializer writes an event consumed from Kafka into the queryable audit_events table.
// Writes are idempotent on eventID.
type Materializer interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event Event) error
}

// Outbox is the relay's view of the outbox table.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}
