// Package backoffice holds the admin-side state: the order board and the
// statistics dashboard.
package backoffice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/khalef-khalil/nkcommerce/internal/listing"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// ErrOrderNotFound is returned when an order is not on the board.
var ErrOrderNotFound = errors.New("order not found")

// OrdersAPI is the part of the backend the order board needs.
type OrdersAPI interface {
	AdminListOrders(ctx context.Context) ([]models.Order, error)
	ConfirmOrder(ctx context.Context, id int) error
}

// OrderBoard holds the admin order list. Orders are replaced wholesale on
// refresh; Confirm is the one place where the board patches a status
// locally, ahead of the server.
type OrderBoard struct {
	api OrdersAPI

	mu     sync.Mutex
	latest uint64
	closed bool
	orders []models.Order

	reconciling sync.WaitGroup
}

// NewOrderBoard creates an empty board.
func NewOrderBoard(api OrdersAPI) *OrderBoard {
	return &OrderBoard{api: api}
}

// Orders returns a copy of the held orders.
func (b *OrderBoard) Orders() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Order(nil), b.orders...)
}

// Page derives one page of the held orders.
func (b *OrderBoard) Page(q listing.OrderQuery) listing.Page[models.Order] {
	return listing.Orders(b.Orders(), q)
}

// Find returns the held order with id.
func (b *OrderBoard) Find(id int) (models.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Refresh replaces the held orders with the backend's list.
func (b *OrderBoard) Refresh(ctx context.Context) ([]models.Order, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.New("order board closed")
	}
	b.latest++
	gen := b.latest
	b.mu.Unlock()

	orders, err := b.api.AdminListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || gen != b.latest {
		log.Printf("Discarding superseded order list")
		return append([]models.Order(nil), b.orders...), nil
	}
	b.orders = orders
	return append([]models.Order(nil), b.orders...), nil
}

// Confirm asks the backend to confirm an order. On success the held copy is
// patched to confirmee right away and a background refresh reconciles the
// board with the server; Wait blocks until it is done.
func (b *OrderBoard) Confirm(ctx context.Context, id int) (models.Order, error) {
	if err := b.api.ConfirmOrder(ctx, id); err != nil {
		return models.Order{}, fmt.Errorf("failed to confirm order %d: %w", id, err)
	}

	b.mu.Lock()
	// Supersede refreshes started before the confirmation.
	b.latest++
	var confirmed models.Order
	found := false
	for i := range b.orders {
		if b.orders[i].ID == id {
			b.orders[i].Statut = models.StatusConfirmed
			confirmed = b.orders[i]
			found = true
			break
		}
	}
	reconcile := !b.closed
	if reconcile {
		// Close waits on reconciling after taking mu.
		b.reconciling.Add(1)
	}
	b.mu.Unlock()

	if reconcile {
		go func() {
			defer b.reconciling.Done()
			if _, err := b.Refresh(context.WithoutCancel(ctx)); err != nil {
				log.Printf("Error reconciling orders after confirming %d: %v", id, err)
			}
		}()
	}

	if !found {
		return models.Order{ID: id, Statut: models.StatusConfirmed}, nil
	}
	return confirmed, nil
}

// Wait blocks until background reconciliations finish.
func (b *OrderBoard) Wait() {
	b.reconciling.Wait()
}

// Close stops the board from applying further results.
func (b *OrderBoard) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.reconciling.Wait()
}
