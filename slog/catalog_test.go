package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/mock"
	uslog "github.com/fwojciec/uframe/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCatalogService_LoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("logs instrument count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				return uframe.NewCatalog([]*uframe.Instrument{
					{ReferenceDesignator: "CE01ISSM-MFD37-03-CTDBPC000"},
				}, nil, nil), nil
			},
		}

		cat, err := uslog.NewLoggingCatalogService(inner, logger).LoadCatalog(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
		output := buf.String()
		assert.Contains(t, output, "catalog load")
		assert.Contains(t, output, "count=1")
		assert.NotContains(t, output, "catalog is empty")
	})

	t.Run("warns when the catalog is empty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				return uframe.NewCatalog(nil, nil, nil), nil
			},
		}

		_, err := uslog.NewLoggingCatalogService(inner, logger).LoadCatalog(context.Background())

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "catalog is empty")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CatalogService{
			LoadCatalogFn: func(ctx context.Context) (*uframe.Catalog, error) {
				return nil, uframe.Errorf(uframe.EFETCH, "timeout")
			},
		}

		_, err := uslog.NewLoggingCatalogService(inner, logger).LoadCatalog(context.Background())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "count=0")
		assert.Contains(t, output, "err=")
		assert.NotContains(t, output, "catalog is empty")
	})
}

func TestLoggingLookup(t *testing.T) {
	t.Parallel()

	t.Run("warns when searching an empty catalog", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		lookup := uslog.NewLoggingLookup(uframe.NewCatalog(nil, nil, nil), logger)
		result := lookup.SearchInstruments("CE01")

		assert.Empty(t, result)
		output := buf.String()
		assert.Contains(t, output, "searching an empty catalog")
		assert.Contains(t, output, "op=instruments")
		assert.Contains(t, output, "fragment=CE01")
	})

	t.Run("delegates without logging on a loaded catalog", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Lookup{
			LenFn: func() int { return 3 },
			SearchStreamsFn: func(fragment string) []string {
				return []string{"ctdbp_cdef_dcl_instrument"}
			},
		}

		result := uslog.NewLoggingLookup(inner, logger).SearchStreams("ctdbp")

		assert.Equal(t, []string{"ctdbp_cdef_dcl_instrument"}, result)
		assert.Empty(t, buf.String())
	})
}
