package singleflight_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/mock"
	"github.com/fwojciec/uframe/singleflight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogOf(refdes ...string) *uframe.Catalog {
	instruments := make([]*uframe.Instrument, 0, len(refdes))
	for _, r := range refdes {
		instruments = append(instruments, &uframe.Instrument{ReferenceDesignator: r})
	}
	return uframe.NewCatalog(instruments, nil, nil)
}

func TestCatalogService_LoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("loads once and serves the cached catalog", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int64
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				loads.Add(1)
				return catalogOf("CE01ISSM-MFD37-03-CTDBPC000"), nil
			},
		}
		svc := singleflight.NewCatalogService(inner)

		first, err := svc.LoadCatalog(context.Background())
		require.NoError(t, err)
		second, err := svc.LoadCatalog(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int64(1), loads.Load())
	})

	t.Run("collapses concurrent loads", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int64
		release := make(chan struct{})
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				loads.Add(1)
				<-release
				return catalogOf("CE01ISSM-MFD37-03-CTDBPC000"), nil
			},
		}
		svc := singleflight.NewCatalogService(inner)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cat, err := svc.LoadCatalog(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, 1, cat.Len())
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int64(1), loads.Load())
	})

	t.Run("keeps the previous catalog when refresh fails", func(t *testing.T) {
		t.Parallel()

		fail := false
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				if fail {
					return nil, uframe.Errorf(uframe.EFETCH, "timeout")
				}
				return catalogOf("CE01ISSM-MFD37-03-CTDBPC000"), nil
			},
		}
		svc := singleflight.NewCatalogService(inner)

		before, err := svc.LoadCatalog(context.Background())
		require.NoError(t, err)

		fail = true
		_, err = svc.Refresh(context.Background())
		require.Error(t, err)
		assert.Equal(t, uframe.EFETCH, uframe.ErrorCode(err))

		assert.Same(t, before, svc.Cached())
		after, err := svc.LoadCatalog(context.Background())
		require.NoError(t, err)
		assert.Same(t, before, after)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int64
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				if loads.Add(1) == 1 {
					return nil, uframe.Errorf(uframe.EFETCH, "timeout")
				}
				return catalogOf("CE01ISSM-MFD37-03-CTDBPC000"), nil
			},
		}
		svc := singleflight.NewCatalogService(inner)

		_, err := svc.LoadCatalog(context.Background())
		require.Error(t, err)
		assert.Nil(t, svc.Cached())

		cat, err := svc.LoadCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
	})
}
