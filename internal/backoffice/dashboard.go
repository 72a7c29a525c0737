package backoffice

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// StatsAPI is the set of admin statistics endpoints.
type StatsAPI interface {
	OrderStats(ctx context.Context) (*models.OrderStats, error)
	SalesStats(ctx context.Context) (*models.SalesStats, error)
	UserStats(ctx context.Context) (*models.UserStats, error)
}

// LoadDashboard fetches the three statistics endpoints concurrently. Any
// failure fails the whole dashboard.
func LoadDashboard(ctx context.Context, api StatsAPI) (*models.Dashboard, error) {
	var (
		dash  models.Dashboard
		group errgroup.Group
	)
	group.Go(func() error {
		s, err := api.OrderStats(ctx)
		if err != nil {
			return fmt.Errorf("order statistics: %w", err)
		}
		dash.Orders = *s
		return nil
	})
	group.Go(func() error {
		s, err := api.SalesStats(ctx)
		if err != nil {
			return fmt.Errorf("sales statistics: %w", err)
		}
		dash.Sales = *s
		return nil
	})
	group.Go(func() error {
		s, err := api.UserStats(ctx)
		if err != nil {
			return fmt.Errorf("user statistics: %w", err)
		}
		dash.Users = *s
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &dash, nil
}
