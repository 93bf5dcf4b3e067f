package testutil

import (
	"net/http"

	id "rigcheck/pkg/domain"
	"rigcheck/pkg/requestcontext"
)

// HeaderAnonymous makes ActorMiddleware skip authentication for one request.
const HeaderAnonymous = "X-Test-Anonymous"

// ActorMiddleware stands in for the bearer-token middleware in handler tests. It stores
// the actor returned by current in the request context unless the request carries
// HeaderAnonymous.
func ActorMiddleware(current func() id.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderAnonymous) != "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, WithActor(r, current()))
		})
	}
}

// WithActor adds an authenticated actor to the request context.
func WithActor(req *http.Request, actor id.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// Anonymous marks req so ActorMiddleware leaves it unauthenticated.
func Anonymous(req *http.Request) *http.Request {
	req.Header.Set(HeaderAnonymous, "1")
	return req
}
