package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/guard"
	"github.com/khalef-khalil/nkcommerce/internal/listing"
)

// OrderHandler serves the shopper's order history.
type OrderHandler struct {
	gw    *Gateway
	rules guard.Rules
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(gw *Gateway, rules guard.Rules) *OrderHandler {
	return &OrderHandler{gw: gw, rules: rules}
}

// RegisterRoutes registers the order history routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/commandes", h.HandleGetOrders)
	router.Get("/commandes/:id", h.HandleGetOrderByID)
}

// HandleGetOrders returns one page of the shopper's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	rs := h.gw.scope(c)
	snap, err := rs.shopper.Resume(c.UserContext())
	if err != nil || !snap.Authenticated() {
		return shopperExpired(c, h.rules, err)
	}

	orders, err := rs.client.ListOrders(c.UserContext())
	if err != nil {
		return fail(c, err, "Impossible de récupérer vos commandes")
	}
	return c.JSON(listing.Orders(orders, listing.ParseOrderQuery(c.Queries())))
}

// HandleGetOrderByID returns one of the shopper's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": msgNotFound,
		})
	}

	rs := h.gw.scope(c)
	snap, err := rs.shopper.Resume(c.UserContext())
	if err != nil || !snap.Authenticated() {
		return shopperExpired(c, h.rules, err)
	}

	order, err := rs.client.GetOrder(c.UserContext(), orderID)
	if err != nil {
		return fail(c, err, "Impossible de récupérer la commande")
	}
	return c.JSON(order)
}
