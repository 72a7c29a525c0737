package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// ListProducts returns the catalog. query is passed through to the
// backend's search/filter parameters.
func (c *Client) ListProducts(ctx context.Context, query url.Values) ([]models.Product, error) {
	return getList[models.Product](ctx, c, Call{Path: "/products/", Query: query})
}

// NewArrivals returns the latest available products.
func (c *Client) NewArrivals(ctx context.Context) ([]models.Product, error) {
	return getList[models.Product](ctx, c, Call{Path: "/products/nouveautes/"})
}

// ProductBySlug returns one product.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var out models.Product
	if err := c.Do(ctx, Call{Path: "/products/" + url.PathEscape(slug) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	return getList[models.Category](ctx, c, Call{Path: "/products/categories/"})
}

// CategoryBySlug returns one category.
func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var out models.Category
	if err := c.Do(ctx, Call{Path: "/products/categories/" + url.PathEscape(slug) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryProducts returns the available products of a category.
func (c *Client) CategoryProducts(ctx context.Context, slug string) ([]models.Product, error) {
	return getList[models.Product](ctx, c, Call{Path: "/products/categories/" + url.PathEscape(slug) + "/produits/"})
}

// CreateProduct adds a product. Admin only.
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var out models.Product
	err := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/products/",
		Body:   in,
		Scope:  credentials.Admin,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a product. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, slug string, in models.ProductInput) (*models.Product, error) {
	var out models.Product
	err := c.Do(ctx, Call{
		Method: http.MethodPut,
		Path:   "/products/" + url.PathEscape(slug) + "/",
		Body:   in,
		Scope:  credentials.Admin,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, slug string) error {
	return c.Do(ctx, Call{
		Method: http.MethodDelete,
		Path:   "/products/" + url.PathEscape(slug) + "/",
		Scope:  credentials.Admin,
	}, nil)
}
