package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/guard"
)

// RouteGuard redirects GET and HEAD navigations the rules do not allow.
// It must run after Credentials.
func RouteGuard(rules guard.Rules) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return c.Next()
		}

		store := StoreFrom(c)
		decision := rules.Evaluate(guard.Input{
			Path:    c.Path(),
			Shopper: credentials.Present(store, credentials.Shopper),
			Admin:   credentials.Present(store, credentials.Admin),
		})
		if decision.Allowed() {
			return c.Next()
		}

		log.Printf("Redirecting %s to %s", c.Path(), decision.Redirect)
		return c.Redirect(decision.Redirect, fiber.StatusFound)
	}
}
