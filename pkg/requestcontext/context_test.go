package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "rigcheck/pkg/domain"
)

func TestActor(t *testing.T) {
	_, ok := Actor(context.Background())
	assert.False(t, ok)

	_, ok = Actor(WithActor(context.Background(), id.Actor{Role: id.RoleAdministrator}))
	assert.False(t, ok, "an actor without an id is not authenticated")

	want := id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleFirefighter}
	got, ok := Actor(WithActor(context.Background(), want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestSetters(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := WithTime(context.Background(), fixed)
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8")

	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, "req-9", RequestID(ctx))
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
	assert.Equal(t, "curl/8", UserAgent(ctx))
}
