package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uframe"
)

var (
	_ uframe.CatalogService = (*LoggingCatalogService)(nil)
	_ uframe.Lookup         = (*LoggingLookup)(nil)
)

// LoggingCatalogService wraps a CatalogService with logging.
type LoggingCatalogService struct {
	next   uframe.CatalogService
	logger *slog.Logger
}

// NewLoggingCatalogService creates a new LoggingCatalogService.
func NewLoggingCatalogService(next uframe.CatalogService, logger *slog.Logger) *LoggingCatalogService {
	return &LoggingCatalogService{next: next, logger: logger}
}

// LoadCatalog delegates to the wrapped service and logs the result.
func (s *LoggingCatalogService) LoadCatalog(ctx context.Context) (cat *uframe.Catalog, err error) {
	defer func(begin time.Time) {
		s.logger.Info("catalog load",
			"count", cat.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
		if err == nil && cat.Len() == 0 {
			s.logger.Warn("catalog is empty")
		}
	}(time.Now())
	return s.next.LoadCatalog(ctx)
}

// LoggingLookup wraps a Lookup and warns when it is searched while empty.
type LoggingLookup struct {
	next   uframe.Lookup
	logger *slog.Logger
}

// NewLoggingLookup creates a new LoggingLookup.
func NewLoggingLookup(next uframe.Lookup, logger *slog.Logger) *LoggingLookup {
	return &LoggingLookup{next: next, logger: logger}
}

func (l *LoggingLookup) checkEmpty(op, fragment string) {
	if l.next.Len() == 0 {
		l.logger.Warn("searching an empty catalog", "op", op, "fragment", fragment)
	}
}

func (l *LoggingLookup) Len() int {
	return l.next.Len()
}

func (l *LoggingLookup) SearchInstruments(fragment string) []string {
	l.checkEmpty("instruments", fragment)
	return l.next.SearchInstruments(fragment)
}

func (l *LoggingLookup) SearchParameters(fragment string) []string {
	l.checkEmpty("parameters", fragment)
	return l.next.SearchParameters(fragment)
}

func (l *LoggingLookup) SearchStreams(fragment string) []string {
	l.checkEmpty("streams", fragment)
	return l.next.SearchStreams(fragment)
}

func (l *LoggingLookup) SearchSubsites(fragment string) []string {
	l.checkEmpty("subsites", fragment)
	return l.next.SearchSubsites(fragment)
}

func (l *LoggingLookup) StreamToInstruments(fragment string) []string {
	l.checkEmpty("stream instruments", fragment)
	return l.next.StreamToInstruments(fragment)
}

func (l *LoggingLookup) InstrumentToStreams(fragment string) []uframe.Stream {
	l.checkEmpty("instrument streams", fragment)
	return l.next.InstrumentToStreams(fragment)
}
