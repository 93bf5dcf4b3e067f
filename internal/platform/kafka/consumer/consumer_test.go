package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedClient returns one batch of records, then blocks until ctx ends.
type scriptedClient struct {
	mu        sync.Mutex
	batch     []*kgo.Record
	polled    bool
	committed []*kgo.Record
}

func (c *scriptedClient) PollFetches(ctx context.Context) kgo.Fetches {
	c.mu.Lock()
	first := !c.polled
	c.polled = true
	c.mu.Unlock()
	if first {
		return kgo.Fetches{{Topics: []kgo.FetchTopic{{
			Topic:      "rigcheck.audit.compliance",
			Partitions: []kgo.FetchPartition{{Partition: 0, Records: c.batch}},
		}}}}
	}
	<-ctx.Done()
	return kgo.Fetches{}
}

func (c *scriptedClient) CommitRecords(_ context.Context, rs ...*kgo.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = append(c.committed, rs...)
	return nil
}

func (c *scriptedClient) committedOffsets() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, 0, len(c.committed))
	for _, r := range c.committed {
		out = append(out, r.Offset)
	}
	return out
}

type flakyHandler struct {
	mu       sync.Mutex
	failures int
	seen     []int64
}

func (h *flakyHandler) Handle(_ context.Context, msg *Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failures > 0 {
		h.failures--
		return errors.New("transient")
	}
	h.seen = append(h.seen, msg.Offset)
	return nil
}

func records(offsets ...int64) []*kgo.Record {
	out := make([]*kgo.Record, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, &kgo.Record{Topic: "rigcheck.audit.compliance", Offset: o, Value: []byte("{}")})
	}
	return out
}

func TestConsumer_RetriesThenCommitsInOrder(t *testing.T) {
	client := &scriptedClient{batch: records(10, 11, 12)}
	handler := &flakyHandler{failures: 2}
	c := New(client, handler, slog.New(slog.NewTextHandler(io.Discard, nil)), WithRetryBackoff(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(client.committedOffsets()) == 3 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{10, 11, 12}, handler.seen)
	assert.Equal(t, []int64{10, 11, 12}, client.committedOffsets())
}

func TestConsumer_StopsRetryingOnCancel(t *testing.T) {
	client := &scriptedClient{batch: records(1)}
	handler := &flakyHandler{failures: 1 << 30}
	c := New(client, handler, slog.New(slog.NewTextHandler(io.Discard, nil)), WithRetryBackoff(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Run(ctx))
	assert.Empty(t, client.committedOffsets())
}
