package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/khalef-khalil/nkcommerce/internal/listing"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// CatalogHandler serves the public catalog pages.
type CatalogHandler struct {
	gw *Gateway
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(gw *Gateway) *CatalogHandler {
	return &CatalogHandler{gw: gw}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/catalogue", h.HandleCatalogue)
	router.Get("/categories", h.HandleCategories)
	router.Get("/categories/:slug", h.HandleCategory)
	router.Get("/produit/:slug", h.HandleProduct)
}

// HandleHome returns the new arrivals and the categories.
func (h *CatalogHandler) HandleHome(c *fiber.Ctx) error {
	client := h.gw.client(c)
	ctx := c.UserContext()

	var (
		arrivals   []models.Product
		categories []models.Category
		group      errgroup.Group
	)
	group.Go(func() (err error) {
		arrivals, err = client.NewArrivals(ctx)
		return err
	})
	group.Go(func() (err error) {
		categories, err = client.ListCategories(ctx)
		return err
	})
	if err := group.Wait(); err != nil {
		return fail(c, err, "Impossible de charger la page d'accueil")
	}
	return c.JSON(fiber.Map{
		"nouveautes": arrivals,
		"categories": categories,
	})
}

// HandleCatalogue returns one page of the filtered, sorted catalog.
func (h *CatalogHandler) HandleCatalogue(c *fiber.Ctx) error {
	products, err := h.gw.client(c).ListProducts(c.UserContext(), nil)
	if err != nil {
		return fail(c, err, "Impossible de charger le catalogue")
	}
	return c.JSON(listing.Products(products, listing.ParseProductQuery(c.Queries())))
}

// HandleCategories lists the categories.
func (h *CatalogHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.gw.client(c).ListCategories(c.UserContext())
	if err != nil {
		return fail(c, err, "Impossible de charger les catégories")
	}
	return c.JSON(categories)
}

// HandleCategory returns a category with one page of its products.
func (h *CatalogHandler) HandleCategory(c *fiber.Ctx) error {
	client := h.gw.client(c)
	ctx := c.UserContext()
	slug := c.Params("slug")

	category, err := client.CategoryBySlug(ctx, slug)
	if err != nil {
		return fail(c, err, "Catégorie introuvable")
	}
	products, err := client.CategoryProducts(ctx, slug)
	if err != nil {
		return fail(c, err, "Impossible de charger les produits de la catégorie")
	}
	return c.JSON(fiber.Map{
		"categorie": category,
		"produits":  listing.Products(products, listing.ParseProductQuery(c.Queries())),
	})
}

// HandleProduct returns one product.
func (h *CatalogHandler) HandleProduct(c *fiber.Ctx) error {
	product, err := h.gw.client(c).ProductBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err, "Produit introuvable")
	}
	return c.JSON(product)
}
