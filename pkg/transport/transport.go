package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
	"github.com/CWeait/nemlig-mcp/pkg/metrics"
	"github.com/CWeait/nemlig-mcp/pkg/ratelimit"
	"github.com/CWeait/nemlig-mcp/pkg/session"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "nemlig-mcp/1.0"
	maxBodyBytes     = 4 << 20
)

// Response is the raw outcome of an upstream exchange. The transport never
// interprets the body; status branching belongs to the API client.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Doer performs a single rate-limited, session-aware HTTP exchange.
type Doer interface {
	Do(ctx context.Context, method, url string, body []byte, header http.Header) (*Response, error)
}

// Options configures the transport. Limiter and Sessions are required;
// Logger and Metrics are optional.
type Options struct {
	Timeout  time.Duration
	Limiter  *ratelimit.Limiter
	Sessions session.Store
	Logger   *logger.Logger
	Metrics  *metrics.UpstreamMetrics
}

type Transport struct {
	http     *http.Client
	limiter  *ratelimit.Limiter
	sessions session.Store
	logg     *logger.Logger
	metrics  *metrics.UpstreamMetrics
}

var (
	errLimiterRequired  = errors.New("transport: rate limiter is required")
	errSessionsRequired = errors.New("transport: session store is required")
)

func New(opts Options) (*Transport, error) {
	if opts.Limiter == nil {
		return nil, errLimiterRequired
	}
	if opts.Sessions == nil {
		return nil, errSessionsRequired
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Transport{
		http:     &http.Client{Timeout: timeout},
		limiter:  opts.Limiter,
		sessions: opts.Sessions,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
	}, nil
}

// Do gates the call through the limiter, attaches stored cookies, performs
// the exchange, and absorbs any Set-Cookie headers back into the store.
// Non-2xx statuses are returned as ordinary responses, not errors.
func (t *Transport) Do(ctx context.Context, method, url string, body []byte, header http.Header) (*Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "interrupted while waiting for rate limit")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "building request")
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	host := req.URL.Hostname()
	cookies, err := t.sessions.Cookies(ctx, host)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "loading session cookies")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	t.debug(ctx, map[string]any{"method": method, "url": url}, "upstream.request")

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.observe(req.URL.Path, 0, time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "performing request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		t.observe(req.URL.Path, resp.StatusCode, time.Since(start))
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "reading response body")
	}

	if received := resp.Cookies(); len(received) > 0 {
		if err := t.sessions.SetCookies(ctx, host, received); err != nil {
			// A stale cookie store degrades the session but the response
			// itself is intact; surface via logs, not the call result.
			if t.logg != nil {
				t.logg.Warn(t.logg.WithField(ctx, "host", host), "failed to persist session cookies")
			}
		}
	}

	t.debug(ctx, map[string]any{"status": resp.StatusCode, "url": url}, "upstream.response")
	t.observe(req.URL.Path, resp.StatusCode, time.Since(start))

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       raw,
		Header:     resp.Header,
	}, nil
}

func (t *Transport) debug(ctx context.Context, fields map[string]any, msg string) {
	if t.logg == nil {
		return
	}
	t.logg.Debug(t.logg.WithFields(ctx, fields), msg)
}

func (t *Transport) observe(endpoint string, status int, elapsed time.Duration) {
	if t.metrics == nil {
		return
	}
	t.metrics.ObserveRequest(endpoint, status, elapsed)
}
