package mock

import (
	"context"

	"github.com/fwojciec/uframe"
)

var (
	_ uframe.Transport  = (*Transport)(nil)
	_ uframe.Dispatcher = (*Dispatcher)(nil)
)

// Transport is a mock implementation of uframe.Transport.
type Transport struct {
	GetFn func(ctx context.Context, url string) (*uframe.RequestOutcome, error)
}

func (t *Transport) Get(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
	return t.GetFn(ctx, url)
}

// Dispatcher is a mock implementation of uframe.Dispatcher.
type Dispatcher struct {
	SendFn func(ctx context.Context, url string) (*uframe.RequestOutcome, error)
}

func (d *Dispatcher) Send(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
	return d.SendFn(ctx, url)
}
