// Package m2m implements the uframe services against the UFrame
// machine-to-machine API: catalog loading, deployment queries, request URL
// building and request dispatch.
package m2m

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/uframe"
)

// M2M service ports.
const (
	SensorInventoryPort = 12576
	EventsPort          = 12587
)

// Client addresses the m2m API of one UFrame instance.
type Client struct {
	baseURL   string
	transport uframe.Transport
}

// NewClient validates baseURL and returns a Client that sends requests
// through transport. baseURL must begin with http:// or https://.
func NewClient(baseURL string, transport uframe.Transport) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, uframe.Errorf(uframe.ECONFIG, "no UFrame base URL specified")
	}
	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, uframe.Errorf(uframe.ECONFIG, "invalid UFrame base URL %q: must begin with http:// or https://", baseURL)
	}
	if transport == nil {
		return nil, uframe.Errorf(uframe.ECONFIG, "no transport specified")
	}
	return &Client{baseURL: trimmed, transport: transport}, nil
}

// BaseURL returns the normalized UFrame base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// M2MBaseURL returns the root of the m2m API.
func (c *Client) M2MBaseURL() string {
	return c.baseURL + "/api/m2m"
}

// URL returns the m2m URL of endpoint on the given service port.
func (c *Client) URL(port int, endpoint string) string {
	return fmt.Sprintf("%s/%d/%s", c.M2MBaseURL(), port, strings.Trim(endpoint, "/"))
}

// get requests endpoint and treats anything but a 200 as a fetch failure.
func (c *Client) get(ctx context.Context, port int, endpoint string) (*uframe.RequestOutcome, error) {
	u := c.URL(port, endpoint)
	outcome, err := c.transport.Get(ctx, u)
	if err != nil {
		return nil, uframe.Errorf(uframe.EFETCH, "%s: %v", u, err)
	}
	if !outcome.OK() {
		msg := outcome.Message
		if msg == "" {
			msg = outcome.Status
		}
		return outcome, uframe.Errorf(uframe.EFETCH, "%s returned status %d: %s", u, outcome.StatusCode, msg)
	}
	return outcome, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
