package m2m

import (
	"context"
	"strconv"
	"strings"

	"github.com/fwojciec/uframe"
)

var _ uframe.Dispatcher = (*Dispatcher)(nil)

// Dispatcher sends request URLs built for this instance.
type Dispatcher struct {
	client *Client
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Send issues a single GET for rawURL. The URL must address the client's m2m
// API and name a numeric service port. A non-200 response is not an error;
// callers inspect the outcome.
func (d *Dispatcher) Send(ctx context.Context, rawURL string) (*uframe.RequestOutcome, error) {
	u := strings.TrimSpace(rawURL)
	prefix := d.client.M2MBaseURL() + "/"
	if !strings.HasPrefix(u, prefix) {
		return nil, uframe.Errorf(uframe.EINVALID, "request URL must begin with %s", prefix)
	}
	port, _, _ := strings.Cut(strings.TrimPrefix(u, prefix), "/")
	if _, err := strconv.Atoi(port); err != nil {
		return nil, uframe.Errorf(uframe.EINVALID, "request URL has no m2m port: %s", u)
	}

	outcome, err := d.client.transport.Get(ctx, u)
	if err != nil {
		return nil, uframe.Errorf(uframe.EFETCH, "%s: %v", u, err)
	}
	return outcome, nil
}
