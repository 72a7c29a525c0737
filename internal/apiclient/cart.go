package apiclient

import (
	"context"
	"net/http"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

const cartPath = "/orders/panier/"

func (c *Client) cartCall(ctx context.Context, action string, body any) (*models.Cart, error) {
	call := Call{Path: cartPath}
	if action != "" {
		call.Method = http.MethodPost
		call.Path = cartPath + action + "/"
		call.Body = body
	}
	var out models.Cart
	if err := c.Do(ctx, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCart returns the current session's cart.
func (c *Client) FetchCart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, "", nil)
}

// AddToCart adds quantity units of a product and returns the whole cart.
func (c *Client) AddToCart(ctx context.Context, productID, quantity int) (*models.Cart, error) {
	return c.cartCall(ctx, "ajouter_produit", map[string]int{
		"produit_id": productID,
		"quantite":   quantity,
	})
}

// UpdateCartItem sets the quantity of a cart line and returns the whole cart.
func (c *Client) UpdateCartItem(ctx context.Context, itemID, quantity int) (*models.Cart, error) {
	return c.cartCall(ctx, "modifier_quantite", map[string]int{
		"article_id": itemID,
		"quantite":   quantity,
	})
}

// RemoveCartItem removes a cart line and returns the whole cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int) (*models.Cart, error) {
	return c.cartCall(ctx, "supprimer_article", map[string]int{
		"article_id": itemID,
	})
}

// ClearCart empties the cart and returns it.
func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, "vider", struct{}{})
}

// PlaceOrder converts the cart into an order.
func (c *Client) PlaceOrder(ctx context.Context, delivery models.DeliveryInfo) (*models.Order, error) {
	var out struct {
		models.Order
		IDCommande int `json:"id_commande"`
	}
	err := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   cartPath + "convertir_en_commande/",
		Body:   delivery,
	}, &out)
	if err != nil {
		return nil, err
	}
	order := out.Order
	if order.ID == 0 {
		order.ID = out.IDCommande
	}
	if order.Statut == "" {
		order.Statut = models.StatusPending
	}
	return &order, nil
}
