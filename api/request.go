package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Param is one query parameter. Parameters are kept as an ordered list so
// the serialized query string preserves caller order.
type Param struct {
	Key   string
	Value string
}

// Request describes one logical outbound call.
type Request struct {
	// Endpoint is the path appended to the client's base URL.
	Endpoint string

	// Method is the HTTP method. Default: GET.
	Method string

	// Headers are merged over the client defaults; caller values win on
	// conflict, including Authorization.
	Headers map[string]string

	// Query parameters, serialized in order.
	Query []Param

	// Body is the request payload. []byte and json.RawMessage are sent
	// as-is; any other non-nil value is JSON-encoded.
	Body any

	// Timeout bounds each transport attempt. Default: DefaultTimeout.
	Timeout time.Duration

	// SkipRetry makes the call a single attempt regardless of outcome.
	SkipRetry bool
}

// method returns the effective HTTP method.
func (r Request) method() string {
	if r.Method == "" {
		return "GET"
	}
	return strings.ToUpper(r.Method)
}

// timeout returns the effective per-attempt timeout.
func (r Request) timeout(fallback time.Duration) time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return fallback
}

// encodeBody serializes the request body once, so retry attempts can replay
// it from memory.
func (r Request) encodeBody() ([]byte, error) {
	switch b := r.Body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}

// buildURL joins the base URL, endpoint, and query string.
func buildURL(base string, r Request) string {
	var sb strings.Builder
	sb.WriteString(base)
	if !strings.HasPrefix(r.Endpoint, "/") {
		sb.WriteByte('/')
	}
	sb.WriteString(r.Endpoint)

	if len(r.Query) > 0 {
		sep := byte('?')
		if strings.ContainsRune(r.Endpoint, '?') {
			sep = '&'
		}
		for _, p := range r.Query {
			sb.WriteByte(sep)
			sep = '&'
			sb.WriteString(url.QueryEscape(p.Key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(p.Value))
		}
	}

	return sb.String()
}
