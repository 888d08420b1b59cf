package uframe

import (
	"context"
	"time"
)

// StatusOK is the only status code treated as a successful m2m response.
const StatusOK = 200

// RequestOutcome describes a single GET against the UFrame instance.
// It replaces any notion of "last request" state: callers that need history
// keep the outcomes they are handed.
type RequestOutcome struct {
	URL        string        `json:"requestUrl"`
	StatusCode int           `json:"statusCode"`
	Status     string        `json:"status"`
	Body       []byte        `json:"-"`
	Message    string        `json:"message,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// OK reports whether the request completed with StatusOK.
func (o *RequestOutcome) OK() bool {
	return o != nil && o.StatusCode == StatusOK
}

// Transport performs HTTP GET requests against a UFrame instance.
type Transport interface {
	// Get issues a GET for url. A non-nil error is returned only when no
	// response was received (connection refused, timeout, cancellation).
	// Non-200 responses are reported through the outcome.
	Get(ctx context.Context, url string) (*RequestOutcome, error)
}

// Dispatcher sends a previously built request URL to the UFrame instance.
type Dispatcher interface {
	Send(ctx context.Context, url string) (*RequestOutcome, error)
}
