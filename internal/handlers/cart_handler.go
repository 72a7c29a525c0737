package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/pkg/rabbitmq"
)

// CartHandler serves the cart and checkout.
type CartHandler struct {
	gw *Gateway
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(gw *Gateway) *CartHandler {
	return &CartHandler{gw: gw}
}

// RegisterRoutes registers the cart and checkout routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/panier", h.HandleGetCart)
	router.Post("/panier/articles", h.HandleAddItem)
	router.Patch("/panier/articles/:id", h.HandleUpdateItem)
	router.Delete("/panier/articles/:id", h.HandleRemoveItem)
	router.Post("/panier/vider", h.HandleClearCart)
	router.Get("/commande", h.HandleCheckoutPage)
	router.Post("/commande", h.HandleCheckout)
}

func cartResponse(message string, cart *models.Cart) fiber.Map {
	return fiber.Map{
		"message": message,
		"cart":    cart,
	}
}

// HandleGetCart returns the server cart of the current session.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	rs := h.gw.scope(c)
	cart, err := rs.cart.Current(c.UserContext())
	if err != nil {
		return fail(c, err, "Impossible de charger le panier")
	}
	return c.JSON(fiber.Map{
		"cart":    cart,
		"summary": rs.cart.Summary(),
	})
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, req); !ok {
		return err
	}

	rs := h.gw.scope(c)
	cart, err := rs.cart.AddItem(c.UserContext(), req.ProduitID, req.Quantite)
	if err != nil {
		return fail(c, err, "Impossible d'ajouter le produit au panier")
	}
	return c.JSON(cartResponse("Produit ajouté au panier", cart))
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("id")
	if err != nil {
		return badBody(c, err)
	}
	var req models.QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, req); !ok {
		return err
	}

	rs := h.gw.scope(c)
	cart, err := rs.cart.SetItemQuantity(c.UserContext(), itemID, req.Quantite)
	if err != nil {
		return fail(c, err, "Impossible de modifier la quantité")
	}
	return c.JSON(cartResponse("Quantité mise à jour", cart))
}

// HandleRemoveItem removes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("id")
	if err != nil {
		return badBody(c, err)
	}

	rs := h.gw.scope(c)
	cart, err := rs.cart.RemoveItem(c.UserContext(), itemID)
	if err != nil {
		return fail(c, err, "Impossible de retirer l'article")
	}
	return c.JSON(cartResponse("Article retiré du panier", cart))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	rs := h.gw.scope(c)
	cart, err := rs.cart.Clear(c.UserContext())
	if err != nil {
		return fail(c, err, "Impossible de vider le panier")
	}
	return c.JSON(cartResponse("Panier vidé", cart))
}

// HandleCheckoutPage returns the cart with a delivery form prefilled from
// the shopper profile when one is signed in.
func (h *CartHandler) HandleCheckoutPage(c *fiber.Ctx) error {
	rs := h.gw.scope(c)
	ctx := c.UserContext()

	var delivery models.DeliveryInfo
	if snap, err := rs.shopper.Resume(ctx); err == nil && snap.Authenticated() {
		delivery = prefill(snap.Identity)
	}

	cart, err := rs.cart.Current(ctx)
	if err != nil {
		return fail(c, err, "Impossible de charger le panier")
	}
	return c.JSON(fiber.Map{
		"cart":     cart,
		"delivery": delivery,
	})
}

func prefill(identity *models.Identity) models.DeliveryInfo {
	d := models.DeliveryInfo{
		NomComplet: strings.TrimSpace(identity.FirstName + " " + identity.LastName),
		Email:      identity.Email,
	}
	if identity.Profil != nil {
		d.Telephone = identity.Profil.Telephone
		d.Adresse = identity.Profil.Adresse
		d.Ville = identity.Profil.Ville
	}
	return d
}

// HandleCheckout converts the cart into an order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var delivery models.DeliveryInfo
	if err := c.BodyParser(&delivery); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, delivery); !ok {
		return err
	}

	rs := h.gw.scope(c)
	order, err := rs.cart.Checkout(c.UserContext(), delivery)
	if err != nil {
		return fail(c, err, "Impossible de passer la commande")
	}

	h.gw.publish(rabbitmq.OrderPlaced, fiber.Map{
		"id_commande": order.ID,
		"email":       delivery.Email,
		"ville":       delivery.Ville,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Commande passée avec succès",
		"order":    order,
		"redirect": "/commandes",
	})
}
