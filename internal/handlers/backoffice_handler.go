package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/backoffice"
	"github.com/khalef-khalil/nkcommerce/internal/guard"
	"github.com/khalef-khalil/nkcommerce/internal/listing"
	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/pkg/rabbitmq"
)

// recentOrders is how many orders the dashboard shows.
const recentOrders = 5

// BackofficeHandler serves the admin dashboard, orders, products and
// statistics. Every route re-verifies the admin session.
type BackofficeHandler struct {
	gw    *Gateway
	rules guard.Rules
}

// NewBackofficeHandler creates a new BackofficeHandler.
func NewBackofficeHandler(gw *Gateway, rules guard.Rules) *BackofficeHandler {
	return &BackofficeHandler{gw: gw, rules: rules}
}

// RegisterRoutes registers the back-office routes.
func (h *BackofficeHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group(h.rules.AdminPrefix)
	admin.Get("/tableau-de-bord", h.HandleDashboard)
	admin.Get("/statistiques", h.HandleStatistics)
	admin.Get("/commandes", h.HandleGetOrders)
	admin.Post("/commandes/:id/confirmer", h.HandleConfirmOrder)
	admin.Get("/produits", h.HandleGetProducts)
	admin.Post("/produits", h.HandleCreateProduct)
	admin.Put("/produits/:slug", h.HandleUpdateProduct)
	admin.Delete("/produits/:slug", h.HandleDeleteProduct)
}

// HandleDashboard returns the statistics summary and the latest orders.
func (h *BackofficeHandler) HandleDashboard(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	ctx := c.UserContext()

	dash, err := backoffice.LoadDashboard(ctx, as.client)
	if err != nil {
		return adminFail(c, err, "Impossible de charger le tableau de bord")
	}
	board := backoffice.NewOrderBoard(as.client)
	defer board.Close()
	if _, err := board.Refresh(ctx); err != nil {
		return adminFail(c, err, "Impossible de récupérer les commandes")
	}

	latest := board.Page(listing.OrderQuery{
		SortBy:    listing.OrderByDate,
		Direction: listing.Desc,
		Page:      1,
		PerPage:   recentOrders,
	})
	return c.JSON(fiber.Map{
		"admin":       as.identity,
		"statistics":  dash,
		"commandes":   latest.Items,
		"total_count": latest.Total,
	})
}

// HandleStatistics returns the full statistics.
func (h *BackofficeHandler) HandleStatistics(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	dash, err := backoffice.LoadDashboard(c.UserContext(), as.client)
	if err != nil {
		return adminFail(c, err, "Impossible de charger les statistiques")
	}
	return c.JSON(dash)
}

// HandleGetOrders returns one page of all orders.
func (h *BackofficeHandler) HandleGetOrders(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	board := backoffice.NewOrderBoard(as.client)
	defer board.Close()
	if _, err := board.Refresh(c.UserContext()); err != nil {
		return adminFail(c, err, "Impossible de récupérer les commandes")
	}
	return c.JSON(board.Page(listing.ParseOrderQuery(c.Queries())))
}

// HandleConfirmOrder confirms an order and answers with the reconciled
// order list.
func (h *BackofficeHandler) HandleConfirmOrder(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": msgNotFound,
		})
	}
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}

	board := backoffice.NewOrderBoard(as.client)
	defer board.Close()
	order, err := board.Confirm(c.UserContext(), orderID)
	if err != nil {
		return adminFail(c, err, "Impossible de confirmer la commande")
	}
	// Reconciliation reads this request's cookies.
	board.Wait()
	if reconciled, found := board.Find(orderID); found {
		order = reconciled
	}

	h.gw.publish(rabbitmq.OrderConfirmed, fiber.Map{
		"id_commande": orderID,
		"admin":       as.identity.Username,
	})
	return c.JSON(fiber.Map{
		"message":   "Commande confirmée",
		"order":     order,
		"commandes": board.Page(listing.ParseOrderQuery(c.Queries())),
	})
}

// HandleGetProducts returns one page of the catalog for management.
func (h *BackofficeHandler) HandleGetProducts(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	products, err := as.client.ListProducts(c.UserContext(), nil)
	if err != nil {
		return adminFail(c, err, "Impossible de charger les produits")
	}
	return c.JSON(listing.Products(products, listing.ParseProductQuery(c.Queries())))
}

func (h *BackofficeHandler) parseProduct(c *fiber.Ctx) (*models.ProductInput, bool, error) {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return nil, false, badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, in); !ok {
		return nil, false, err
	}
	if in.Prix.IsNegative() {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": msgValidationFailed,
			"errors":  map[string]string{"Prix": "Field 'Prix' must not be negative"},
		})
	}
	return &in, true, nil
}

// HandleCreateProduct creates a product.
func (h *BackofficeHandler) HandleCreateProduct(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	in, ok, err := h.parseProduct(c)
	if !ok {
		return err
	}

	product, err := as.client.CreateProduct(c.UserContext(), *in)
	if err != nil {
		return adminFail(c, err, "Impossible de créer le produit")
	}
	h.gw.publish(rabbitmq.ProductCreated, fiber.Map{"id": product.ID, "slug": product.Slug})
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product.
func (h *BackofficeHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	in, ok, err := h.parseProduct(c)
	if !ok {
		return err
	}

	product, err := as.client.UpdateProduct(c.UserContext(), c.Params("slug"), *in)
	if err != nil {
		return adminFail(c, err, "Impossible de modifier le produit")
	}
	h.gw.publish(rabbitmq.ProductUpdated, fiber.Map{"id": product.ID, "slug": product.Slug})
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *BackofficeHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	as, ok, err := requireAdmin(h.gw, h.rules, c)
	if !ok {
		return err
	}
	slug := c.Params("slug")
	if err := as.client.DeleteProduct(c.UserContext(), slug); err != nil {
		return adminFail(c, err, "Impossible de supprimer le produit")
	}
	h.gw.publish(rabbitmq.ProductDeleted, fiber.Map{"slug": slug})
	return c.JSON(fiber.Map{
		"message": "Produit supprimé",
	})
}
