package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/agrisight/agrikit/observe"
	"github.com/agrisight/agrikit/session"
)

const (
	// DefaultTimeout bounds a single transport attempt.
	DefaultTimeout = 30 * time.Second

	// MaxRetryAttempts is the default total number of attempts for
	// retryable failures.
	MaxRetryAttempts = 3

	// RetryDelay is the base backoff delay. The wait before attempt N+1 is
	// RetryDelay * N (1s, 2s, ... with the default).
	RetryDelay = time.Second

	// DefaultAcceptLanguage is sent when the caller does not override it.
	DefaultAcceptLanguage = "en"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the service's base URL. Required.
	BaseURL string

	// Service is the logical service name used in telemetry
	// (e.g. "weather", "field-ops").
	Service string

	// HTTPClient is the underlying transport. Default: a plain http.Client.
	// Per-attempt deadlines come from the request context, so the
	// transport's own Timeout should stay zero.
	HTTPClient *http.Client

	// Session holds the bearer credential. Default: an empty MemoryStore.
	Session session.Store

	// Sink is notified when a call invalidates the session (HTTP 401).
	// Default: session.NopSink.
	Sink session.Sink

	// Timeout is the default per-attempt timeout. Default: DefaultTimeout.
	Timeout time.Duration

	// MaxAttempts is the total attempt budget for retryable failures.
	// Default: MaxRetryAttempts.
	MaxAttempts int

	// RetryDelay is the base backoff delay. Default: RetryDelay.
	RetryDelay time.Duration

	// AcceptLanguage is the default Accept-Language header value.
	// Default: DefaultAcceptLanguage.
	AcceptLanguage string

	// Breaker, when set, refuses calls locally while the service is
	// considered down.
	Breaker *Breaker

	// Limiter, when set, gates each transport attempt.
	Limiter *rate.Limiter

	// Observer supplies tracing, metrics, and logging. Optional.
	Observer observe.Observer
}

// Client executes requests against one backend service through the
// resilient request pipeline.
type Client struct {
	baseURL        string
	service        string
	http           *http.Client
	session        session.Store
	sink           session.Sink
	timeout        time.Duration
	maxAttempts    int
	retryDelay     time.Duration
	acceptLanguage string
	breaker        *Breaker
	limiter        *rate.Limiter
	tracer         observe.Tracer
	metrics        observe.Metrics
	logger         observe.Logger
}

// NewClient creates a Client for one service.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		service:        cfg.Service,
		http:           cfg.HTTPClient,
		session:        cfg.Session,
		sink:           cfg.Sink,
		timeout:        cfg.Timeout,
		maxAttempts:    cfg.MaxAttempts,
		retryDelay:     cfg.RetryDelay,
		acceptLanguage: cfg.AcceptLanguage,
		breaker:        cfg.Breaker,
		limiter:        cfg.Limiter,
	}

	// Apply defaults
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.session == nil {
		c.session = session.NewMemoryStore()
	}
	if c.sink == nil {
		c.sink = session.NopSink{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = MaxRetryAttempts
	}
	if c.retryDelay <= 0 {
		c.retryDelay = RetryDelay
	}
	if c.acceptLanguage == "" {
		c.acceptLanguage = DefaultAcceptLanguage
	}

	c.tracer = observe.NewNoopTracer()
	c.metrics = observe.NewNoopMetrics()
	c.logger = observe.NopLogger()
	if cfg.Observer != nil {
		c.tracer = observe.NewTracer(cfg.Observer.Tracer())
		metrics, err := observe.NewMetrics(cfg.Observer.Meter())
		if err != nil {
			return nil, err
		}
		c.metrics = metrics
		c.logger = cfg.Observer.Logger()
	}

	return c, nil
}

// Session returns the client's credential store.
func (c *Client) Session() session.Store {
	return c.session
}

// Do executes one logical call and returns its normalized envelope. All
// failure modes (network, timeout, HTTP errors, malformed bodies) are folded
// into the envelope; Do never panics and never returns a Go error.
func (c *Client) Do(ctx context.Context, r Request) Envelope[json.RawMessage] {
	meta := observe.RequestMeta{Service: c.service, Method: r.method(), Endpoint: r.Endpoint}
	logger := c.logger.WithRequest(meta)

	ctx, span := c.tracer.StartSpan(ctx, meta)
	start := time.Now()

	env, attempts := c.do(ctx, r, span, logger)

	duration := time.Since(start)
	err := env.Err()
	c.tracer.EndSpan(span, err)
	c.metrics.RecordRequest(ctx, meta, observe.RequestStats{
		Status:   env.Status,
		Attempts: attempts,
		Duration: duration,
	}, err)

	fields := []observe.Field{
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		{Key: "attempts", Value: attempts},
		{Key: "status", Value: env.Status},
	}
	if err != nil {
		fields = append(fields,
			observe.Field{Key: "kind", Value: env.Kind.String()},
			observe.Field{Key: "error", Value: env.Error},
		)
		logger.Error(ctx, "api request failed", fields...)
	} else {
		logger.Debug(ctx, "api request completed", fields...)
	}

	return env
}

// do runs the attempt loop. It returns the terminal envelope and the number
// of transport attempts actually made.
func (c *Client) do(ctx context.Context, r Request, span trace.Span, logger observe.Logger) (Envelope[json.RawMessage], int) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return failure(KindUnavailable, 0, msgUnavailable), 0
		}
	}

	env, attempts := c.attemptLoop(ctx, r, span, logger)

	if c.breaker != nil {
		// Only transient outcomes trip the breaker; a 4xx proves the
		// service is up.
		failed := env.Kind == KindServer || env.Kind == KindNetwork || env.Kind == KindTimeout
		c.breaker.Record(failed)
	}

	return env, attempts
}

func (c *Client) attemptLoop(ctx context.Context, r Request, span trace.Span, logger observe.Logger) (Envelope[json.RawMessage], int) {
	body, err := r.encodeBody()
	if err != nil {
		return failure(KindDecode, 0, err.Error()), 0
	}

	maxAttempts := c.maxAttempts
	if r.SkipRetry {
		maxAttempts = 1
	}
	timeout := r.timeout(c.timeout)
	finalURL := buildURL(c.baseURL, r)

	// One correlation ID for the whole logical call, reused across attempts.
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return failure(KindNetwork, 0, err.Error()), attempt
			}
		}

		resp, raw, err := c.roundTrip(ctx, r, finalURL, body, requestID, timeout)
		if err != nil {
			c.tracer.RecordAttempt(span, attempt+1, 0, err)

			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				// Per-attempt timer fired. Timeouts are terminal: the
				// server may still be processing the request, so replaying
				// it is not safe to assume.
				return failure(KindTimeout, 0, msgTimeout), attempt + 1
			}
			if ctx.Err() != nil {
				return failure(KindNetwork, 0, ctx.Err().Error()), attempt + 1
			}

			lastErr = err
			if attempt+1 < maxAttempts {
				if !c.backoff(ctx, attempt, logger, err) {
					return failure(KindNetwork, 0, ctx.Err().Error()), attempt + 1
				}
			}
			continue
		}

		c.tracer.RecordAttempt(span, attempt+1, resp.StatusCode, nil)

		env, retry := c.classify(ctx, resp, raw)
		if !retry {
			return env, attempt + 1
		}

		// 5xx with attempts remaining
		lastErr = env.Err()
		if attempt+1 >= maxAttempts {
			return env, attempt + 1
		}
		if !c.backoff(ctx, attempt, logger, lastErr) {
			return env, attempt + 1
		}
	}

	// Transport errors exhausted the attempt budget.
	msg := msgNetwork
	if lastErr != nil {
		msg = lastErr.Error()
	}
	return failure(KindNetwork, 0, msg), maxAttempts
}

// roundTrip performs one transport attempt and drains the response body.
func (c *Client) roundTrip(ctx context.Context, r Request, url string, body []byte, requestID string, timeout time.Duration) (*http.Response, []byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, r.method(), url, reader)
	if err != nil {
		return nil, nil, err
	}
	c.setHeaders(req, r, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, raw, nil
}

// setHeaders merges default headers, the bearer token, and caller headers.
// Caller headers take precedence on conflict.
func (c *Client) setHeaders(req *http.Request, r Request, requestID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("X-Request-ID", requestID)

	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
}

// classify turns one HTTP response into an envelope. retry is true only for
// 5xx responses, which the caller may replay while attempts remain.
func (c *Client) classify(ctx context.Context, resp *http.Response, raw []byte) (env Envelope[json.RawMessage], retry bool) {
	status := resp.StatusCode
	isJSON := isJSONContent(resp.Header.Get("Content-Type"))

	// The body is parsed before the status is inspected: a JSON content
	// type with an unparseable body is terminal regardless of status.
	if isJSON && len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
		return failure(KindDecode, status, msgInvalidJSON), false
	}

	switch {
	case status == http.StatusUnauthorized:
		// Session invalidation is a side effect of the response, not of
		// the envelope: it happens regardless of what the caller does next.
		c.session.Clear()
		c.sink.Unauthorized(ctx)
		return failure(KindUnauthorized, status, extractMessage(raw, isJSON, statusMessage(status))), false

	case status >= 400 && status < 500:
		return failure(KindClient, status, extractMessage(raw, isJSON, statusMessage(status))), false

	case status >= 500:
		return failure(KindServer, status, extractMessage(raw, isJSON, statusMessage(status))), true

	case status >= 200 && status < 300:
		return successEnvelope(raw, isJSON, status), false

	default:
		// 1xx/3xx leaking through the transport
		return failure(KindClient, status, statusMessage(status)), false
	}
}

// successEnvelope normalizes a 2xx body. A JSON body that already has the
// envelope shape passes through unchanged; anything else is wrapped.
func successEnvelope(raw []byte, isJSON bool, status int) Envelope[json.RawMessage] {
	if isJSON && hasEnvelopeShape(raw) {
		var env Envelope[json.RawMessage]
		if err := json.Unmarshal(raw, &env); err != nil {
			return failure(KindDecode, status, msgInvalidJSON)
		}
		env.Status = status
		return env
	}

	var data json.RawMessage
	if isJSON {
		data = json.RawMessage(raw)
	} else if len(raw) > 0 {
		// Plain-text body, carried as a JSON string.
		encoded, err := json.Marshal(string(raw))
		if err != nil {
			return failure(KindDecode, status, msgInvalidJSON)
		}
		data = encoded
	}

	return Envelope[json.RawMessage]{Success: true, Data: data, Status: status}
}

// backoff waits RetryDelay*(attempt+1) before the next attempt. It returns
// false if the context was canceled during the wait.
func (c *Client) backoff(ctx context.Context, attempt int, logger observe.Logger, cause error) bool {
	delay := c.retryDelay * time.Duration(attempt+1)

	fields := []observe.Field{
		{Key: "attempt", Value: attempt + 1},
		{Key: "delay_ms", Value: float64(delay.Milliseconds())},
	}
	if cause != nil {
		fields = append(fields, observe.Field{Key: "error", Value: cause.Error()})
	}
	logger.Warn(ctx, "retrying api request", fields...)

	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}
