package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uframe"
)

var _ uframe.DeploymentService = (*LoggingDeploymentService)(nil)

// LoggingDeploymentService wraps a DeploymentService with logging.
type LoggingDeploymentService struct {
	next   uframe.DeploymentService
	logger *slog.Logger
}

// NewLoggingDeploymentService creates a new LoggingDeploymentService.
func NewLoggingDeploymentService(next uframe.DeploymentService, logger *slog.Logger) *LoggingDeploymentService {
	return &LoggingDeploymentService{next: next, logger: logger}
}

// QueryDeployments delegates to the wrapped service and logs the query.
func (s *LoggingDeploymentService) QueryDeployments(ctx context.Context, refdes string, filter uframe.DeploymentFilter) (result *uframe.DeploymentResult, err error) {
	defer func(begin time.Time) {
		count := 0
		if result != nil {
			count = len(result.Events)
		}
		s.logger.Info("deployment query",
			"refdes", refdes,
			"status", string(filter.Status),
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.QueryDeployments(ctx, refdes, filter)
}

// ActiveDeployments delegates to the wrapped service and logs the sweep.
func (s *LoggingDeploymentService) ActiveDeployments(ctx context.Context, catalog *uframe.Catalog, refdes, filter string) (result *uframe.DeploymentResult, err error) {
	defer func(begin time.Time) {
		count := 0
		if result != nil {
			count = len(result.Events)
		}
		s.logger.Info("active deployments",
			"refdes", refdes,
			"filter", filter,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ActiveDeployments(ctx, catalog, refdes, filter)
}
