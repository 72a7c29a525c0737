// Package cart mirrors the server-owned cart. Every successful call
// replaces the held cart with the backend's response; nothing is merged or
// recomputed locally.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

var (
	// ErrInvalidQuantity is returned for quantities below 1.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidItem is returned for non-positive product or item ids.
	ErrInvalidItem = errors.New("invalid cart item")
	// ErrInvalidDelivery wraps checkout form validation failures.
	ErrInvalidDelivery = errors.New("invalid delivery information")
	// ErrClosed is returned once the synchronizer has been closed.
	ErrClosed = errors.New("cart synchronizer closed")
)

// API is the part of the backend the synchronizer needs.
type API interface {
	FetchCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, itemID, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
	PlaceOrder(ctx context.Context, delivery models.DeliveryInfo) (*models.Order, error)
}

// Summary is the badge view of the held cart, as reported by the server.
type Summary struct {
	Loaded bool            `json:"loaded"`
	Items  int             `json:"nombre_articles"`
	Total  decimal.Decimal `json:"montant_total"`
}

// Synchronizer holds one cart snapshot for one shopper session.
type Synchronizer struct {
	api      API
	validate *validator.Validate

	mu     sync.Mutex
	latest uint64
	closed bool
	cart   *models.Cart
}

// NewSynchronizer creates a synchronizer holding no cart yet.
func NewSynchronizer(api API) *Synchronizer {
	return &Synchronizer{
		api:      api,
		validate: validator.New(),
	}
}

// Follow refreshes the cart whenever the shopper credential changes, so the
// held cart always belongs to the current session.
func (s *Synchronizer) Follow(shopper *session.Shopper) {
	shopper.OnCredentialChange(func(ctx context.Context, _ session.ShopperSnapshot) {
		if _, err := s.Refresh(ctx); err != nil {
			log.Printf("Error refreshing cart after credential change: %v", err)
		}
	})
}

// Cart returns a copy of the held cart, nil when none is held.
func (s *Synchronizer) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Summary returns the server-reported totals of the held cart.
func (s *Synchronizer) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return Summary{}
	}
	return Summary{Loaded: true, Items: s.cart.NombreArticles, Total: s.cart.MontantTotal}
}

// Close discards results of calls still in flight.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// ResetLocal drops the held cart without a backend call. The next Current
// fetches it again.
func (s *Synchronizer) ResetLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.cart = nil
}

func (s *Synchronizer) begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	s.latest++
	return s.latest, nil
}

// apply replaces the held cart if gen is still the latest call.
func (s *Synchronizer) apply(gen uint64, cart *models.Cart) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.latest {
		log.Printf("Discarding superseded cart response")
		return s.cart.Clone()
	}
	s.cart = cart.Clone()
	return s.cart.Clone()
}

// Current returns the held cart, fetching it when none is held.
func (s *Synchronizer) Current(ctx context.Context) (*models.Cart, error) {
	if held := s.Cart(); held != nil {
		return held, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the cart. On failure the held cart is kept.
func (s *Synchronizer) Refresh(ctx context.Context) (*models.Cart, error) {
	gen, err := s.begin()
	if err != nil {
		return nil, err
	}
	cart, err := s.api.FetchCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return s.apply(gen, cart), nil
}

// mutate runs one mutating call. A failed call leaves the held cart as it
// was and triggers a corrective refresh, since its effect is unknown.
func (s *Synchronizer) mutate(ctx context.Context, op string, call func() (*models.Cart, error)) (*models.Cart, error) {
	gen, err := s.begin()
	if err != nil {
		return nil, err
	}
	cart, err := call()
	if err != nil {
		if _, rerr := s.Refresh(ctx); rerr != nil {
			log.Printf("Error resynchronizing cart after failed %s: %v", op, rerr)
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return s.apply(gen, cart), nil
}

// AddItem adds quantity units of a product. Stock limits are enforced by
// the backend and surface as an ordinary error.
func (s *Synchronizer) AddItem(ctx context.Context, productID, quantity int) (*models.Cart, error) {
	if productID <= 0 {
		return nil, ErrInvalidItem
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, "add item", func() (*models.Cart, error) {
		return s.api.AddToCart(ctx, productID, quantity)
	})
}

// SetItemQuantity sets the quantity of a cart line.
func (s *Synchronizer) SetItemQuantity(ctx context.Context, itemID, quantity int) (*models.Cart, error) {
	if itemID <= 0 {
		return nil, ErrInvalidItem
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, "update item quantity", func() (*models.Cart, error) {
		return s.api.UpdateCartItem(ctx, itemID, quantity)
	})
}

// RemoveItem removes a cart line.
func (s *Synchronizer) RemoveItem(ctx context.Context, itemID int) (*models.Cart, error) {
	if itemID <= 0 {
		return nil, ErrInvalidItem
	}
	return s.mutate(ctx, "remove item", func() (*models.Cart, error) {
		return s.api.RemoveCartItem(ctx, itemID)
	})
}

// Clear empties the cart on the backend.
func (s *Synchronizer) Clear(ctx context.Context) (*models.Cart, error) {
	return s.mutate(ctx, "clear cart", func() (*models.Cart, error) {
		return s.api.ClearCart(ctx)
	})
}

// Checkout converts the cart into an order. On success the held cart is
// dropped locally, without a backend call.
func (s *Synchronizer) Checkout(ctx context.Context, delivery models.DeliveryInfo) (*models.Order, error) {
	if err := s.validate.Struct(delivery); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDelivery, err)
	}
	if _, err := s.begin(); err != nil {
		return nil, err
	}
	order, err := s.api.PlaceOrder(ctx, delivery)
	if err != nil {
		if _, rerr := s.Refresh(ctx); rerr != nil {
			log.Printf("Error resynchronizing cart after failed checkout: %v", rerr)
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	s.ResetLocal()
	return order, nil
}
