// Package slog provides log/slog decorators for the uframe services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uframe"
)

// Ensure logging decorators implement their interfaces.
var (
	_ uframe.Transport  = (*LoggingTransport)(nil)
	_ uframe.Dispatcher = (*LoggingDispatcher)(nil)
)

// LoggingTransport wraps a Transport with request logging.
type LoggingTransport struct {
	next   uframe.Transport
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport(next uframe.Transport, logger *slog.Logger) *LoggingTransport {
	return &LoggingTransport{next: next, logger: logger}
}

// Get delegates to the wrapped transport and logs the request.
func (t *LoggingTransport) Get(ctx context.Context, url string) (outcome *uframe.RequestOutcome, err error) {
	defer func(begin time.Time) {
		logOutcome(t.logger, "m2m request", url, outcome, time.Since(begin), err)
	}(time.Now())
	return t.next.Get(ctx, url)
}

// LoggingDispatcher wraps a Dispatcher with logging of sent requests.
type LoggingDispatcher struct {
	next   uframe.Dispatcher
	logger *slog.Logger
}

// NewLoggingDispatcher creates a new LoggingDispatcher.
func NewLoggingDispatcher(next uframe.Dispatcher, logger *slog.Logger) *LoggingDispatcher {
	return &LoggingDispatcher{next: next, logger: logger}
}

// Send delegates to the wrapped dispatcher and logs the outcome.
func (d *LoggingDispatcher) Send(ctx context.Context, url string) (outcome *uframe.RequestOutcome, err error) {
	defer func(begin time.Time) {
		logOutcome(d.logger, "send request", url, outcome, time.Since(begin), err)
	}(time.Now())
	return d.next.Send(ctx, url)
}

func logOutcome(logger *slog.Logger, msg, url string, outcome *uframe.RequestOutcome, d time.Duration, err error) {
	if err != nil {
		logger.Error(msg, "url", url, "duration", d, "err", err)
		return
	}
	if !outcome.OK() {
		logger.Warn(msg,
			"url", url,
			"status", outcome.StatusCode,
			"message", outcome.Message,
			"duration", d,
		)
		return
	}
	logger.Info(msg,
		"url", url,
		"status", outcome.StatusCode,
		"bytes", len(outcome.Body),
		"duration", d,
	)
}
