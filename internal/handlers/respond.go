package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
	"github.com/khalef-khalil/nkcommerce/internal/cart"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

// User-facing messages.
const (
	msgInvalidBody        = "Requête invalide"
	msgValidationFailed   = "Validation échouée"
	msgInvalidCredentials = "Échec de la connexion. Vérifiez vos identifiants."
	msgNotAdministrator   = "Accès non autorisé. Vous n'êtes pas administrateur."
	msgForbidden          = "Accès refusé."
	msgSuperseded         = "Une autre opération de connexion est en cours. Réessayez."
	msgSessionExpired     = "Votre session a expiré. Veuillez vous reconnecter."
	msgUnavailable        = "Service momentanément indisponible. Réessayez plus tard."
	msgNotFound           = "Ressource introuvable"
	msgInvalidQuantity    = "La quantité doit être un entier positif."
)

// classify maps an error to its HTTP status and, for kinds that have one,
// a fixed user message. forbidden is the message for a backend 403.
func classify(err error, forbidden string) (int, string) {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, session.ErrNotAdministrator):
		return fiber.StatusForbidden, msgNotAdministrator
	case errors.Is(err, session.ErrSuperseded):
		return fiber.StatusConflict, msgSuperseded
	case errors.Is(err, session.ErrSessionExpired), errors.Is(err, session.ErrNotAuthenticated),
		errors.Is(err, apiclient.ErrUnauthorized):
		return fiber.StatusUnauthorized, msgSessionExpired
	case errors.Is(err, apiclient.ErrForbidden):
		return fiber.StatusForbidden, forbidden
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidItem):
		return fiber.StatusBadRequest, msgInvalidQuantity
	case errors.Is(err, cart.ErrInvalidDelivery):
		return fiber.StatusBadRequest, ""
	case errors.Is(err, apiclient.ErrValidation):
		return fiber.StatusBadRequest, apiclient.MessageOf(err)
	case errors.Is(err, apiclient.ErrNotFound):
		return fiber.StatusNotFound, msgNotFound
	case errors.Is(err, apiclient.ErrTransport), errors.Is(err, apiclient.ErrServer):
		return fiber.StatusBadGateway, msgUnavailable
	}
	return fiber.StatusInternalServerError, ""
}

// fail answers with the status derived from err. message is used when the
// error kind has no fixed message of its own.
func fail(c *fiber.Ctx, err error, message string) error {
	return respondError(c, err, message, msgForbidden)
}

// adminFail is fail for back-office routes, where a backend 403 means the
// account has no back-office capability.
func adminFail(c *fiber.Ctx, err error, message string) error {
	return respondError(c, err, message, msgNotAdministrator)
}

func respondError(c *fiber.Ctx, err error, message, forbidden string) error {
	status, fixed := classify(err, forbidden)
	if fixed != "" {
		message = fixed
	}
	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing %s request body: %v", c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": msgInvalidBody,
		"error":   err.Error(),
	})
}

// validateBody runs the validator on v and writes the field error map on
// failure. It reports whether v is valid.
func (g *Gateway) validateBody(c *fiber.Ctx, v interface{}) (bool, error) {
	err := g.validate.Struct(v)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, badBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": msgValidationFailed,
		"errors":  errorMessages,
	})
}

// navigation reports whether c is a page view rather than an action.
func navigation(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead
}
