// Package http implements uframe.Transport over net/http.
package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/uframe"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default timeout for m2m requests. TOC and deployment
// queries against a large instance routinely take over a minute.
const DefaultTimeout = 120 * time.Second

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "uframe-go"

// Ensure Transport implements uframe.Transport at compile time.
var _ uframe.Transport = (*Transport)(nil)

// Transport performs GET requests against a UFrame instance.
type Transport struct {
	client    *http.Client
	timeout   time.Duration
	user      string
	token     string
	userAgent string
	insecure  bool
	limiter   *rate.Limiter
}

// Option configures a Transport.
type Option func(*Transport)

// WithTimeout sets the timeout for each request.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.timeout = d
	}
}

// WithBasicAuth authenticates requests with an API user name and token.
// Credentials are only sent when both are non-empty.
func WithBasicAuth(user, token string) Option {
	return func(t *Transport) {
		t.user = user
		t.token = token
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(t *Transport) {
		t.insecure = skip
	}
}

// WithRateLimit limits requests to rps per second with a burst of 1.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64) Option {
	return func(t *Transport) {
		if rps <= 0 {
			t.limiter = nil
			return
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		t.userAgent = ua
	}
}

// NewTransport creates a new Transport.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	if t.insecure {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	t.client = &http.Client{
		Timeout:   t.timeout,
		Transport: base,
	}

	return t
}

// Get issues a GET request for url and reads the whole response body.
// An error is returned only when no response was received.
func (t *Transport) Get(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.user != "" && t.token != "" {
		req.SetBasicAuth(t.user, t.token)
	}

	begin := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	outcome := &uframe.RequestOutcome{
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
		Duration:   time.Since(begin),
	}
	if resp.StatusCode != http.StatusOK {
		outcome.Message = errorMessage(body, resp.Status)
	}
	return outcome, nil
}

// errorMessage returns the message field of a JSON error body, else the body
// itself, else the status text.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != nil {
		if s, ok := payload.Message.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Message); err == nil {
			return string(b)
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}
