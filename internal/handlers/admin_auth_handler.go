package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
	"github.com/khalef-khalil/nkcommerce/internal/guard"
	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

// AdminAuthHandler serves the back-office login and logout.
type AdminAuthHandler struct {
	gw    *Gateway
	rules guard.Rules
}

// NewAdminAuthHandler creates a new AdminAuthHandler.
func NewAdminAuthHandler(gw *Gateway, rules guard.Rules) *AdminAuthHandler {
	return &AdminAuthHandler{gw: gw, rules: rules}
}

// RegisterRoutes registers the admin authentication routes.
func (h *AdminAuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get(h.rules.AdminLogin, h.HandleLoginPage)
	router.Post(h.rules.AdminLogin, h.HandleLogin)
	router.Post(h.rules.AdminPrefix+"/deconnexion-admin", h.HandleLogout)
}

// HandleLoginPage describes the admin login form.
func (h *AdminAuthHandler) HandleLoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "connexion-admin"})
}

// HandleLogin signs an administrator in. Valid credentials of a
// non-administrator are refused and nothing is persisted.
func (h *AdminAuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, req); !ok {
		return err
	}

	_, admin := h.gw.admin(c)
	snap, err := admin.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return adminFail(c, err, msgInvalidCredentials)
	}
	return c.JSON(fiber.Map{
		"message":  "Connexion administrateur réussie",
		"admin":    snap.Identity,
		"redirect": h.rules.AdminDashboard,
	})
}

// HandleLogout forgets the admin credential.
func (h *AdminAuthHandler) HandleLogout(c *fiber.Ctx) error {
	_, admin := h.gw.admin(c)
	if _, err := admin.Logout(); err != nil {
		return adminFail(c, err, "Échec de la déconnexion")
	}
	return c.JSON(fiber.Map{
		"message":  "Déconnexion réussie",
		"redirect": h.rules.AdminLogin,
	})
}

// requireAdmin verifies the admin session of c. When it fails the response
// has already been written and the returned error must be returned as is.
func requireAdmin(gw *Gateway, rules guard.Rules, c *fiber.Ctx) (*adminScope, bool, error) {
	client, admin := gw.admin(c)
	snap, err := admin.Resume(c.UserContext())
	if err == nil && snap.Authenticated() {
		return &adminScope{client: client, identity: snap.Identity}, true, nil
	}
	if err == nil {
		err = session.ErrNotAuthenticated
	}

	revoked := errors.Is(err, session.ErrNotAdministrator) ||
		errors.Is(err, session.ErrSessionExpired) ||
		errors.Is(err, session.ErrNotAuthenticated)
	if revoked && navigation(c) {
		return nil, false, c.Redirect(rules.AdminLogin, fiber.StatusFound)
	}
	return nil, false, adminFail(c, err, msgNotAdministrator)
}

type adminScope struct {
	client   *apiclient.Client
	identity *models.AdminIdentity
}
