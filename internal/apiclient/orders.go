package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// ListOrders returns the shopper's order history.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, c, Call{Path: "/orders/commandes/"})
}

// GetOrder returns one order of the shopper.
func (c *Client) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	var out models.Order
	if err := c.Do(ctx, Call{Path: "/orders/commandes/" + strconv.Itoa(id) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminListOrders returns every order. Admin only.
func (c *Client) AdminListOrders(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, c, Call{Path: "/orders/admin/commandes/"})
}

// ConfirmOrder moves an order to confirmee. Admin only.
func (c *Client) ConfirmOrder(ctx context.Context, id int) error {
	return c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/orders/commandes/" + strconv.Itoa(id) + "/confirm/",
	}, nil)
}

// OrderStats returns order counters. Admin only.
func (c *Client) OrderStats(ctx context.Context) (*models.OrderStats, error) {
	var out models.OrderStats
	if err := c.Do(ctx, Call{Path: "/orders/stats/orders/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SalesStats returns revenue figures. Admin only.
func (c *Client) SalesStats(ctx context.Context) (*models.SalesStats, error) {
	var out models.SalesStats
	if err := c.Do(ctx, Call{Path: "/orders/stats/sales/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserStats returns customer figures. Admin only.
func (c *Client) UserStats(ctx context.Context) (*models.UserStats, error) {
	var out models.UserStats
	if err := c.Do(ctx, Call{Path: "/orders/stats/users/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
