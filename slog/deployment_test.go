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

func TestLoggingDeploymentService_QueryDeployments(t *testing.T) {
	t.Parallel()

	t.Run("logs refdes, status and count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DeploymentService{
			QueryDeploymentsFn: func(ctx context.Context, refdes string, filter uframe.DeploymentFilter) (*uframe.DeploymentResult, error) {
				return &uframe.DeploymentResult{
					Raw:    []uframe.RawDeploymentEvent{{}, {}},
					Events: []uframe.Deployment{{DeploymentNumber: 1}, {DeploymentNumber: 2}},
				}, nil
			},
		}

		result, err := uslog.NewLoggingDeploymentService(inner, logger).QueryDeployments(context.Background(),
			"CE01ISSM", uframe.DeploymentFilter{Status: uframe.DeploymentStatusActive})

		require.NoError(t, err)
		assert.Len(t, result.Events, 2)
		output := buf.String()
		assert.Contains(t, output, "deployment query")
		assert.Contains(t, output, "refdes=CE01ISSM")
		assert.Contains(t, output, "status=active")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DeploymentService{
			QueryDeploymentsFn: func(ctx context.Context, refdes string, filter uframe.DeploymentFilter) (*uframe.DeploymentResult, error) {
				return nil, uframe.Errorf(uframe.EFETCH, "unavailable")
			},
		}

		_, err := uslog.NewLoggingDeploymentService(inner, logger).QueryDeployments(context.Background(), "CE01ISSM", uframe.DeploymentFilter{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "count=0")
		assert.Contains(t, output, "unavailable")
	})
}

func TestLoggingDeploymentService_ActiveDeployments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.DeploymentService{
		ActiveDeploymentsFn: func(ctx context.Context, catalog *uframe.Catalog, refdes, filter string) (*uframe.DeploymentResult, error) {
			assert.Equal(t, "CE01", refdes)
			assert.Equal(t, "CTDBP", filter)
			return &uframe.DeploymentResult{Events: []uframe.Deployment{{DeploymentNumber: 12, Active: true}}}, nil
		},
	}

	result, err := uslog.NewLoggingDeploymentService(inner, logger).ActiveDeployments(context.Background(), nil, "CE01", "CTDBP")

	require.NoError(t, err)
	assert.Len(t, result.Events, 1)
	output := buf.String()
	assert.Contains(t, output, "active deployments")
	assert.Contains(t, output, "refdes=CE01")
	assert.Contains(t, output, "filter=CTDBP")
	assert.Contains(t, output, "count=1")
}
