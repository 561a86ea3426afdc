// Package session holds the credential used by API clients and the
// side-effect surface for session invalidation.
//
// The bearer token lives behind the Store interface so the composition root
// decides where it persists (in memory, in the host application's own
// storage) and tests can substitute a fake without package-level state.
//
// When a request receives HTTP 401, the pipeline clears the Store and
// notifies the configured Sink. Browser-facing hosts wire a Sink that
// navigates to their login route; server contexts use NopSink.
//
//	store := session.NewMemoryStore()
//	sink := session.SinkFunc(func(ctx context.Context) {
//	    // navigate to /login, refresh the token, etc.
//	})
package session
