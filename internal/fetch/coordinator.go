package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"orderdesk/internal/logger"
	"orderdesk/internal/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const breakerName = "backend"

// Executor is what repositories need from a Coordinator.
type Executor interface {
	Execute(ctx context.Context, key string, target Target, opts ...Option) (Outcome, error)
}

type Settings struct {
	BaseURL string
	// Timeout applies to every call unless overridden with WithTimeout. 0 disables.
	Timeout time.Duration
	// RateLimit caps outbound calls per second. 0 disables limiting.
	RateLimit rate.Limit
	Burst     int
	Breaker   bool
	// HTTPClient replaces the default transport, mostly for tests.
	HTTPClient *http.Client
}

// pending is one in-flight call registered under a key.
type pending struct {
	cancel    context.CancelFunc
	cancelled bool // guarded by Coordinator.mu
}

// Coordinator issues named backend calls. Starting a call under a key cancels
// whatever call is still in flight under the same key, so for any key only the
// most recent call can settle with data or an error.
type Coordinator struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]*pending
}

func NewCoordinator(s Settings) *Coordinator {
	client := resty.New()
	if s.HTTPClient != nil {
		client = resty.NewWithClient(s.HTTPClient)
	}
	client.
		SetBaseURL(strings.TrimRight(s.BaseURL, "/")).
		SetRetryCount(0).
		SetLogger(logger.L().Sugar())

	c := &Coordinator{
		client:  client,
		timeout: s.Timeout,
		pending: make(map[string]*pending),
	}

	if s.Breaker {
		c.breaker = newBreaker(breakerName)
	}
	if s.RateLimit > 0 {
		burst := s.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(s.RateLimit, burst)
	}

	return c
}

// Execute issues target under key. A cancelled call returns a KindCancelled
// outcome and a nil error; the caller must not report it. Failures return
// *NetworkError or *HTTPError. The key's registration is gone by the time
// Execute returns.
func (c *Coordinator) Execute(ctx context.Context, key string, target Target, opts ...Option) (Outcome, error) {
	if key == "" {
		return Outcome{Kind: KindFailed}, ErrEmptyKey
	}

	o := callOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&o)
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	entry := c.register(key, cancel)

	reqID := uuid.New().String()
	callCtx = logger.WithRequestKey(logger.WithRequestID(callCtx, reqID), key)
	log := logger.FromCtx(callCtx).With(
		zap.String("layer", "fetch"),
		zap.String("op", target.op()),
	)
	timer := metrics.StartTimer()

	log.Debug("request issued")

	resp, err := c.do(callCtx, reqID, target, o.timeout)
	cancelled := c.settle(key, entry)

	if cancelled || errors.Is(err, context.Canceled) {
		log.Debug("request cancelled", zap.Duration("duration", timer.Duration()))
		metrics.ObserveRequest(key, metrics.OutcomeCancelled, timer)
		return Outcome{Kind: KindCancelled}, nil
	}

	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("duration", timer.Duration()))
		metrics.ObserveRequest(key, metrics.OutcomeNetwork, timer)
		return Outcome{Kind: KindFailed}, &NetworkError{Op: target.op(), Err: err}
	}

	out, err := toOutcome(resp)
	if err != nil {
		log.Warn("backend returned non-success status",
			zap.Int("status", out.Status),
			zap.Error(err),
			zap.Duration("duration", timer.Duration()),
		)
		metrics.ObserveRequest(key, metrics.OutcomeHTTPError, timer)
		return out, err
	}

	log.Debug("request settled",
		zap.Int("status", out.Status),
		zap.Stringer("kind", out.Kind),
		zap.Duration("duration", timer.Duration()),
	)
	if out.Kind == KindData {
		metrics.ObserveRequest(key, metrics.OutcomeData, timer)
	} else {
		metrics.ObserveRequest(key, metrics.OutcomeOK, timer)
	}
	return out, nil
}

// Cancel aborts the call pending under key, if any.
func (c *Coordinator) Cancel(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pending[key]
	if !ok {
		return false
	}
	entry.cancelled = true
	entry.cancel()
	delete(c.pending, key)
	metrics.PendingRequests.Set(float64(len(c.pending)))
	return true
}

// CancelAll aborts every pending call. Used on teardown.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.pending {
		entry.cancelled = true
		entry.cancel()
		delete(c.pending, key)
	}
	metrics.PendingRequests.Set(0)
}

// Pending reports whether a call is in flight under key.
func (c *Coordinator) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

// Len is the number of in-flight calls.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Coordinator) register(key string, cancel context.CancelFunc) *pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.pending[key]; ok {
		prev.cancelled = true
		prev.cancel()
		metrics.SupersededTotal.WithLabelValues(key).Inc()
	}

	entry := &pending{cancel: cancel}
	c.pending[key] = entry
	metrics.PendingRequests.Set(float64(len(c.pending)))
	return entry
}

// settle clears entry's registration (unless a newer call already owns the key)
// and reports whether entry was cancelled. Both happen under one lock so a call
// cannot be superseded after it has been judged current.
func (c *Coordinator) settle(key string, entry *pending) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending[key] == entry {
		delete(c.pending, key)
	}
	metrics.PendingRequests.Set(float64(len(c.pending)))
	return entry.cancelled
}

func (c *Coordinator) do(ctx context.Context, reqID string, t Target, timeout time.Duration) (*resty.Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	send := func() (*resty.Response, error) {
		req := c.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetHeader("X-Request-ID", reqID)
		if len(t.Header) > 0 {
			req.SetHeaders(t.Header)
		}
		if len(t.Query) > 0 {
			req.SetQueryParamsFromValues(t.Query)
		}
		if t.Body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(t.Body)
		}
		return req.Execute(t.Method, t.Path)
	}

	if c.breaker == nil {
		return send()
	}

	var (
		resp    *resty.Response
		sendErr error
	)
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, sendErr = send()
		switch {
		case sendErr != nil && errors.Is(sendErr, context.Canceled):
			return nil, nil
		case sendErr != nil:
			return nil, sendErr
		case resp.StatusCode() >= http.StatusInternalServerError:
			return nil, errServerFailure
		}
		return nil, nil
	})

	if sendErr != nil {
		return nil, sendErr
	}
	if err != nil && !errors.Is(err, errServerFailure) {
		return nil, breakerError(breakerName, err)
	}
	return resp, nil
}

func toOutcome(resp *resty.Response) (Outcome, error) {
	status := resp.StatusCode()

	if status == http.StatusNoContent {
		return Outcome{Kind: KindOK, Status: status}, nil
	}

	if status < 200 || status >= 300 {
		return Outcome{Kind: KindFailed, Status: status}, &HTTPError{
			Status:  status,
			Message: extractMessage(resp.Body(), status),
		}
	}

	body := resp.Body()
	if isJSON(resp.Header().Get("Content-Type")) && len(bytes.TrimSpace(body)) > 0 {
		return Outcome{Kind: KindData, Status: status, Body: body}, nil
	}
	return Outcome{Kind: KindOK, Status: status}, nil
}

func isJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func extractMessage(body []byte, status int) string {
	var payload struct {
		Message string   `json:"message"`
		Error   string   `json:"error"`
		Errors  []string `json:"errors"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		if len(payload.Errors) > 0 {
			return strings.Join(payload.Errors, "; ")
		}
	}
	return defaultMessage(status)
}
