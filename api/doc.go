// Package api implements the resilient request pipeline used by every
// service client in this module.
//
// One logical call is a bounded loop of transport attempts. Transient
// failures (5xx responses, non-timeout network errors) are retried with a
// linearly increasing backoff; permanent failures (4xx responses, malformed
// bodies, per-attempt timeouts) terminate the call on the first occurrence.
// Every outcome is folded into the same Envelope shape, so callers check one
// boolean instead of distinguishing failure origins structurally.
//
// # Retry policy
//
//	Malformed JSON body    terminal, "Invalid JSON response from server"
//	HTTP 4xx (incl. 401)   terminal, message extracted from the body
//	HTTP 5xx               retried up to the attempt budget
//	Timeout                terminal, "Request timeout - please try again"
//	Other transport error  retried up to the attempt budget
//	SkipRetry              one attempt total, whatever the outcome
//
// An HTTP 401 additionally clears the session store and notifies the
// session sink before the envelope is returned.
//
// # Usage
//
//	client, err := api.NewClient(api.Config{
//	    BaseURL: "https://weather.internal.agrisight.io",
//	    Service: "weather",
//	    Session: store,
//	})
//	if err != nil {
//	    return err
//	}
//
//	env := client.Get(ctx, "/v1/current", api.Param{Key: "lat", Value: "52.1"})
//	if !env.Success {
//	    return env.Err()
//	}
//
// Typed payloads decode through Call:
//
//	obs, err := api.Call[Observation](ctx, client, api.Request{Endpoint: "/v1/current"})
//
// An optional circuit breaker refuses calls locally while a service is
// down, and an optional rate limiter (golang.org/x/time/rate) gates attempt
// frequency per client.
package api
