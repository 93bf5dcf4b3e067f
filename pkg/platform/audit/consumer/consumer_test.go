package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigcheck/internal/platform/kafka/consumer"
	audit "rigcheck/pkg/platform/audit"
	"rigcheck/pkg/platform/audit/store/memory"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingMaterializer struct{}

func (failingMaterializer) AppendWithID(context.Context, uuid.UUID, audit.Event) error {
	return errors.New("db down")
}

type countingHandler struct{ calls int }

func (h *countingHandler) Handle(context.Context, *consumer.Message) error {
	h.calls++
	return nil
}

func message(t *testing.T, topic string, eventID uuid.UUID, action audit.AuditEvent) *consumer.Message {
	t.Helper()
	body, err := json.Marshal(audit.NewPayload(eventID, audit.Event{
		Action:      string(action),
		Timestamp:   time.Date(2026, 6, 1, 7, 30, 0, 0, time.UTC),
		SubjectType: audit.SubjectIssue,
		SubjectID:   "issue-1",
	}))
	require.NoError(t, err)
	return &consumer.Message{Topic: topic, Key: []byte("issue:issue-1"), Value: body}
}

func TestEventHandler_MaterialisesIdempotently(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewEventHandler(store, discard)
	msg := message(t, "rigcheck.audit.compliance", uuid.New(), audit.EventIssueResolved)

	require.NoError(t, h.Handle(context.Background(), msg))
	require.NoError(t, h.Handle(context.Background(), msg))

	events := store.All()
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventIssueResolved), events[0].Action)
	assert.Equal(t, "issue-1", events[0].SubjectID)
}

func TestEventHandler_SkipsMalformedMessages(t *testing.T) {
	store := memory.NewInMemoryStore()
	h := NewEventHandler(store, discard)

	require.NoError(t, h.Handle(context.Background(), &consumer.Message{Value: []byte("not json")}))
	require.NoError(t, h.Handle(context.Background(), &consumer.Message{Value: []byte(`{"id":"nope"}`)}))
	assert.Empty(t, store.All())
}

func TestEventHandler_ReturnsStorageErrorsForRetry(t *testing.T) {
	h := NewEventHandler(failingMaterializer{}, discard, WithAlerting())
	err := h.Handle(context.Background(), message(t, "t", uuid.New(), audit.EventAccessDenied))
	require.Error(t, err)
}

func TestRouter_DispatchesByCategory(t *testing.T) {
	security := &countingHandler{}
	fallback := &countingHandler{}
	r := NewRouter("rigcheck.audit", discard, fallback)
	r.Register(audit.CategorySecurity, security)

	for _, topic := range []string{
		"rigcheck.audit.security",
		"rigcheck.audit.compliance",
		"other.audit.security",
		"rigcheck.audit.",
	} {
		require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: topic}))
	}

	assert.Equal(t, 1, security.calls)
	assert.Equal(t, 3, fallback.calls)
}

func TestRouter_SkipsUnroutedWithoutFallback(t *testing.T) {
	r := NewRouter("rigcheck.audit", discard, nil)
	require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "rigcheck.audit.operations"}))
}
