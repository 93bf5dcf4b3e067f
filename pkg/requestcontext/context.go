// Package requestcontext carries request-scoped values (actor, client metadata, request id,
// request time) through a context without depending on net/http.
//
// Middleware writes these values. Services receive the actor and the time as explicit
// parameters, so reads happen at the transport edge and in audit enrichment.
package requestcontext

import (
	"context"
	"time"

	id "rigcheck/pkg/domain"
)

type ctxKey int

const (
	keyActor ctxKey = iota
	keyClientIP
	keyUserAgent
	keyRequestID
	keyRequestTime
)

func WithActor(ctx context.Context, actor id.Actor) context.Context {
	return context.WithValue(ctx, keyActor, actor)
}

// Actor returns the authenticated actor; ok is false when none is set or its id is nil.
func Actor(ctx context.Context) (id.Actor, bool) {
	actor, ok := ctx.Value(keyActor).(id.Actor)
	return actor, ok && !actor.ID.IsNil()
}

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, clientIP)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

func ClientIP(ctx context.Context) string {
	return stringValue(ctx, keyClientIP)
}

func UserAgent(ctx context.Context) string {
	return stringValue(ctx, keyUserAgent)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

func RequestID(ctx context.Context) string {
	return stringValue(ctx, keyRequestID)
}

// WithTime pins the time every policy decision in this request uses.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, t)
}

// Now returns the pinned request time, or the wall clock outside a request
// (sweeper, CLI).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

func stringValue(ctx context.Context, key ctxKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}
