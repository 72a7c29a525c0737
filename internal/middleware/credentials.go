// Package middleware holds the gateway's Fiber hooks.
package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
)

const storeKey = "credentials"

// StoreProvider builds the credential store for one request's cookies.
type StoreProvider func(jar credentials.CookieJar) credentials.Store

// CookieStores returns a provider of sealed-cookie stores.
func CookieStores(secret string) StoreProvider {
	return func(jar credentials.CookieJar) credentials.Store {
		return credentials.NewCookieStore(jar, secret)
	}
}

// VaultStores returns a provider of vault-backed stores.
func VaultStores(vault *credentials.Vault) StoreProvider {
	return func(jar credentials.CookieJar) credentials.Store {
		return vault.Bind(jar)
	}
}

// Credentials binds a credential store to every request.
func Credentials(provide StoreProvider, opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(storeKey, provide(NewFiberJar(c, opts)))
		return c.Next()
	}
}

// StoreFrom returns the store bound by Credentials, or nil.
func StoreFrom(c *fiber.Ctx) credentials.Store {
	store, _ := c.Locals(storeKey).(credentials.Store)
	return store
}
