package mock

import (
	"context"

	"github.com/fwojciec/uframe"
)

var _ uframe.DeploymentService = (*DeploymentService)(nil)

// DeploymentService is a mock implementation of uframe.DeploymentService.
type DeploymentService struct {
	QueryDeploymentsFn  func(ctx context.Context, refdes string, filter uframe.DeploymentFilter) (*uframe.DeploymentResult, error)
	ActiveDeploymentsFn func(ctx context.Context, catalog *uframe.Catalog, refdes, filter string) (*uframe.DeploymentResult, error)
}

func (s *DeploymentService) QueryDeployments(ctx context.Context, refdes string, filter uframe.DeploymentFilter) (*uframe.DeploymentResult, error) {
	return s.QueryDeploymentsFn(ctx, refdes, filter)
}

func (s *DeploymentService) ActiveDeployments(ctx context.Context, catalog *uframe.Catalog, refdes, filter string) (*uframe.DeploymentResult, error) {
	return s.ActiveDeploymentsFn(ctx, catalog, refdes, filter)
}
