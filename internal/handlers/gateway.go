// Package handlers serves the storefront and back-office pages and actions.
// Every request gets its own session stores and cart synchronizer, built
// over the credential store bound by the middleware.
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
	"github.com/khalef-khalil/nkcommerce/internal/cart"
	"github.com/khalef-khalil/nkcommerce/internal/middleware"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

// Publisher publishes storefront events. A nil Publisher disables events.
type Publisher interface {
	Publish(eventType string, data interface{}) error
}

// Gateway holds what every handler shares.
type Gateway struct {
	api      *apiclient.Client
	policy   session.Policy
	events   Publisher
	validate *validator.Validate
}

// NewGateway creates the shared handler dependencies. events may be nil.
func NewGateway(api *apiclient.Client, policy session.Policy, events Publisher) *Gateway {
	return &Gateway{
		api:      api,
		policy:   policy,
		events:   events,
		validate: validator.New(),
	}
}

// requestScope is the per-request view of the session.
type requestScope struct {
	client  *apiclient.Client
	shopper *session.Shopper
	cart    *cart.Synchronizer
}

// scope builds the shopper session and the cart synchronizer for c. The
// cart follows the shopper credential.
func (g *Gateway) scope(c *fiber.Ctx) *requestScope {
	client := g.client(c)
	shopper := session.NewShopper(client, middleware.StoreFrom(c))
	sync := cart.NewSynchronizer(client)
	sync.Follow(shopper)
	return &requestScope{client: client, shopper: shopper, cart: sync}
}

// client returns the backend client bound to c's credentials.
func (g *Gateway) client(c *fiber.Ctx) *apiclient.Client {
	return g.api.WithStore(middleware.StoreFrom(c))
}

// admin builds the admin session for c.
func (g *Gateway) admin(c *fiber.Ctx) (*apiclient.Client, *session.Admin) {
	client := g.client(c)
	return client, session.NewAdmin(client, middleware.StoreFrom(c), g.policy)
}

// publish sends an event. Failures are logged and never fail the request.
func (g *Gateway) publish(eventType string, data interface{}) {
	if g.events == nil {
		return
	}
	if err := g.events.Publish(eventType, data); err != nil {
		log.Printf("Error publishing %s event: %v", eventType, err)
	}
}
