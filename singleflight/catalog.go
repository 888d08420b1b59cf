// Package singleflight shares one loaded catalog between concurrent callers.
package singleflight

import (
	"context"
	"sync"

	"github.com/fwojciec/uframe"
	"golang.org/x/sync/singleflight"
)

var _ uframe.CatalogService = (*CatalogService)(nil)

// CatalogService caches the catalog loaded by the wrapped service. Concurrent
// loads are collapsed into one. A failed Refresh keeps the previous catalog.
type CatalogService struct {
	next  uframe.CatalogService
	group singleflight.Group

	mu      sync.RWMutex
	catalog *uframe.Catalog
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(next uframe.CatalogService) *CatalogService {
	return &CatalogService{next: next}
}

// LoadCatalog returns the cached catalog, loading it on first use.
func (s *CatalogService) LoadCatalog(ctx context.Context) (*uframe.Catalog, error) {
	if cat := s.Cached(); cat != nil {
		return cat, nil
	}
	return s.load(ctx, false)
}

// Refresh loads a new catalog and replaces the cached one on success.
func (s *CatalogService) Refresh(ctx context.Context) (*uframe.Catalog, error) {
	return s.load(ctx, true)
}

func (s *CatalogService) load(ctx context.Context, force bool) (*uframe.Catalog, error) {
	v, err, _ := s.group.Do("catalog", func() (any, error) {
		if cat := s.Cached(); cat != nil && !force {
			return cat, nil
		}
		cat, err := s.next.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.catalog = cat
		s.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*uframe.Catalog), nil
}

// Cached returns the cached catalog, or nil if none has been loaded.
func (s *CatalogService) Cached() *uframe.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}
