package api

import "errors"

// Kind classifies the terminal outcome of a call so callers can branch
// without matching on the human-readable error string.
type Kind int

const (
	// KindNone means the call succeeded.
	KindNone Kind = iota
	// KindTimeout means an attempt exceeded its per-attempt deadline.
	KindTimeout
	// KindUnauthorized means the server returned HTTP 401 and the session
	// was invalidated.
	KindUnauthorized
	// KindClient means the server returned a non-401 4xx status.
	KindClient
	// KindServer means the server returned 5xx on every permitted attempt.
	KindServer
	// KindNetwork means the transport failed (DNS, connection refused, ...)
	// on every permitted attempt.
	KindNetwork
	// KindDecode means a response body could not be parsed or a payload
	// could not be decoded into the caller's type.
	KindDecode
	// KindUnavailable means the call was refused locally (open circuit).
	KindUnavailable
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindUnauthorized:
		return "unauthorized"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Retryable reports whether failures of this kind are retried by the
// pipeline. Only transient failures qualify: 5xx responses and non-timeout
// transport errors.
func (k Kind) Retryable() bool {
	return k == KindServer || k == KindNetwork
}

// Sentinel errors for the request pipeline.
var (
	// ErrCircuitOpen is returned when the circuit breaker refuses a call.
	ErrCircuitOpen = errors.New("api: circuit breaker is open")

	// ErrMissingBaseURL indicates Config.BaseURL is empty.
	ErrMissingBaseURL = errors.New("api: base URL is required")
)

// Canned failure messages. The platform's frontends pattern-match on these
// exact strings, so they are part of the envelope contract.
const (
	msgTimeout     = "Request timeout - please try again"
	msgInvalidJSON = "Invalid JSON response from server"
	msgNetwork     = "Network error - please check your connection"
	msgUnavailable = "Service unavailable - please try again later"
)

// APIError is the error form of a failed envelope, returned by Call and the
// typed service clients.
type APIError struct {
	// Kind is the machine-readable failure classification.
	Kind Kind

	// Status is the final HTTP status code, 0 if no response was received.
	Status int

	// Message is the human-readable error from the envelope.
	Message string
}

func (e *APIError) Error() string {
	return "api: " + e.Message
}
