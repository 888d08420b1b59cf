package prometheus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/uframe"
	"github.com/fwojciec/uframe/mock"
	uprom "github.com/fwojciec/uframe/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusTransport(code int) *mock.Transport {
	return &mock.Transport{
		GetFn: func(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
			return &uframe.RequestOutcome{URL: url, StatusCode: code}, nil
		},
	}
}

func TestTransport_Get(t *testing.T) {
	t.Parallel()

	t.Run("counts requests by status code", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		transport, err := uprom.NewTransport(statusTransport(200), reg)
		require.NoError(t, err)

		for range 3 {
			_, err := transport.Get(context.Background(), "https://ooinet.example.org/api/m2m/12576/sensor/inv/toc")
			require.NoError(t, err)
		}

		count, err := testutil.GatherAndCount(reg, "uframe_m2m_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		families, err := reg.Gather()
		require.NoError(t, err)
		for _, mf := range families {
			if mf.GetName() == "uframe_m2m_requests_total" {
				require.Len(t, mf.GetMetric(), 1)
				assert.Equal(t, float64(3), mf.GetMetric()[0].GetCounter().GetValue())
				assert.Equal(t, "200", mf.GetMetric()[0].GetLabel()[0].GetValue())
			}
		}
	})

	t.Run("labels transport failures as error", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		inner := &mock.Transport{
			GetFn: func(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
				return nil, errors.New("connection refused")
			},
		}
		transport, err := uprom.NewTransport(inner, reg)
		require.NoError(t, err)

		_, err = transport.Get(context.Background(), "https://ooinet.example.org")
		require.Error(t, err)

		families, err := reg.Gather()
		require.NoError(t, err)
		var found bool
		for _, mf := range families {
			if mf.GetName() == "uframe_m2m_requests_total" {
				found = true
				assert.Equal(t, uprom.CodeError, mf.GetMetric()[0].GetLabel()[0].GetValue())
			}
		}
		assert.True(t, found)
	})

	t.Run("reuses collectors registered by an earlier transport", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		first, err := uprom.NewTransport(statusTransport(200), reg)
		require.NoError(t, err)
		second, err := uprom.NewTransport(statusTransport(404), reg)
		require.NoError(t, err)

		_, err = first.Get(context.Background(), "a")
		require.NoError(t, err)
		_, err = second.Get(context.Background(), "b")
		require.NoError(t, err)

		count, err := testutil.GatherAndCount(reg, "uframe_m2m_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	transport, err := uprom.NewTransport(statusTransport(200), reg)
	require.NoError(t, err)
	_, err = transport.Get(context.Background(), "a")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "uframe.prom")
	require.NoError(t, uprom.WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `uframe_m2m_requests_total{code="200"} 1`)
	assert.Contains(t, string(content), "uframe_m2m_request_seconds_bucket")
}
