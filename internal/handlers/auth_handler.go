package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/guard"
	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

// AuthHandler serves shopper login, registration, logout and profile.
type AuthHandler struct {
	gw    *Gateway
	rules guard.Rules
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(gw *Gateway, rules guard.Rules) *AuthHandler {
	return &AuthHandler{gw: gw, rules: rules}
}

// RegisterRoutes registers the shopper authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/connexion", h.HandleLoginPage)
	router.Post("/connexion", h.HandleLogin)
	router.Get("/inscription", h.HandleRegisterPage)
	router.Post("/inscription", h.HandleRegister)
	router.Post("/deconnexion", h.HandleLogout)
	router.Get("/profil", h.HandleProfile)
	router.Patch("/profil", h.HandleUpdateProfile)
}

func (h *AuthHandler) callback(c *fiber.Ctx) string {
	return guard.SafeCallback(c.Query(h.rules.CallbackParam), h.rules.ShopperProfile)
}

// HandleLoginPage describes the login form.
func (h *AuthHandler) HandleLoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":        "connexion",
		"callbackUrl": h.callback(c),
	})
}

// HandleRegisterPage describes the registration form.
func (h *AuthHandler) HandleRegisterPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":        "inscription",
		"callbackUrl": h.callback(c),
	})
}

// HandleLogin signs the shopper in and answers with the identity, the cart
// of the new session and where to go next.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, req); !ok {
		return err
	}

	rs := h.gw.scope(c)
	snap, err := rs.shopper.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return fail(c, err, msgInvalidCredentials)
	}

	return c.JSON(fiber.Map{
		"message":  "Connexion réussie",
		"user":     snap.Identity,
		"cart":     rs.cart.Cart(),
		"redirect": h.callback(c),
	})
}

// HandleRegister creates the account and signs it in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, req); !ok {
		return err
	}

	rs := h.gw.scope(c)
	snap, err := rs.shopper.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err, "Échec de l'inscription")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Inscription réussie",
		"user":     snap.Identity,
		"cart":     rs.cart.Cart(),
		"redirect": h.callback(c),
	})
}

// HandleLogout forgets the shopper credential and returns the anonymous cart.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	rs := h.gw.scope(c)
	if _, err := rs.shopper.Logout(c.UserContext()); err != nil {
		return fail(c, err, "Échec de la déconnexion")
	}
	return c.JSON(fiber.Map{
		"message":  "Déconnexion réussie",
		"cart":     rs.cart.Cart(),
		"redirect": "/",
	})
}

// HandleProfile returns the signed-in shopper's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	rs := h.gw.scope(c)
	snap, err := rs.shopper.Resume(c.UserContext())
	if err != nil || !snap.Authenticated() {
		return h.expired(c, err)
	}
	return c.JSON(fiber.Map{"user": snap.Identity})
}

// HandleUpdateProfile applies a partial profile update.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var patch models.ProfileInput
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c, err)
	}
	if ok, err := h.gw.validateBody(c, patch); !ok {
		return err
	}

	rs := h.gw.scope(c)
	snap, err := rs.shopper.UpdateProfile(c.UserContext(), patch)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) || errors.Is(err, session.ErrSessionExpired) {
			return h.expired(c, err)
		}
		return fail(c, err, "Impossible de mettre à jour le profil")
	}
	return c.JSON(fiber.Map{
		"message": "Profil mis à jour",
		"user":    snap.Identity,
	})
}

// expired sends page views back to the login form and answers actions with
// 401.
func (h *AuthHandler) expired(c *fiber.Ctx, err error) error {
	return shopperExpired(c, h.rules, err)
}

func shopperExpired(c *fiber.Ctx, rules guard.Rules, err error) error {
	if err == nil {
		err = session.ErrNotAuthenticated
	}
	if navigation(c) && !errors.Is(err, session.ErrSessionExpired) && !errors.Is(err, session.ErrNotAuthenticated) {
		return fail(c, err, "Impossible de charger votre session")
	}
	if navigation(c) {
		decision := rules.Evaluate(guard.Input{Path: c.Path()})
		if !decision.Allowed() {
			return c.Redirect(decision.Redirect, fiber.StatusFound)
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": msgSessionExpired,
		"error":   err.Error(),
	})
}
