package mock

import (
	"context"

	"github.com/fwojciec/uframe"
)

var (
	_ uframe.CatalogService = (*CatalogService)(nil)
	_ uframe.TOCFetcher     = (*TOCFetcher)(nil)
	_ uframe.Lookup         = (*Lookup)(nil)
)

// CatalogService is a mock implementation of uframe.CatalogService.
type CatalogService struct {
	LoadCatalogFn func(ctx context.Context) (*uframe.Catalog, error)
}

func (s *CatalogService) LoadCatalog(ctx context.Context) (*uframe.Catalog, error) {
	return s.LoadCatalogFn(ctx)
}

// TOCFetcher is a mock implementation of uframe.TOCFetcher.
type TOCFetcher struct {
	FetchTOCFn func(ctx context.Context) ([]byte, error)
}

func (f *TOCFetcher) FetchTOC(ctx context.Context) ([]byte, error) {
	return f.FetchTOCFn(ctx)
}

// Lookup is a mock implementation of uframe.Lookup.
type Lookup struct {
	LenFn                 func() int
	SearchInstrumentsFn   func(fragment string) []string
	SearchParametersFn    func(fragment string) []string
	SearchStreamsFn       func(fragment string) []string
	SearchSubsitesFn      func(fragment string) []string
	StreamToInstrumentsFn func(fragment string) []string
	InstrumentToStreamsFn func(fragment string) []uframe.Stream
}

func (l *Lookup) Len() int {
	return l.LenFn()
}

func (l *Lookup) SearchInstruments(fragment string) []string {
	return l.SearchInstrumentsFn(fragment)
}

func (l *Lookup) SearchParameters(fragment string) []string {
	return l.SearchParametersFn(fragment)
}

func (l *Lookup) SearchStreams(fragment string) []string {
	return l.SearchStreamsFn(fragment)
}

func (l *Lookup) SearchSubsites(fragment string) []string {
	return l.SearchSubsitesFn(fragment)
}

func (l *Lookup) StreamToInstruments(fragment string) []string {
	return l.StreamToInstrumentsFn(fragment)
}

func (l *Lookup) InstrumentToStreams(fragment string) []uframe.Stream {
	return l.InstrumentToStreamsFn(fragment)
}
