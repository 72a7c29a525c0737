// Package credentials keeps the per-scope bearer tokens of one browser
// session behind a small get/set/clear interface.
package credentials

import (
	"errors"
	"fmt"
	"time"
)

// Scope names an independent credential slot.
type Scope string

const (
	// Shopper holds the storefront customer's token.
	Shopper Scope = "shopper"
	// Admin holds the back-office token. It never interacts with Shopper.
	Admin Scope = "admin"
	// Visitor relays the backend's anonymous session id so carts of
	// anonymous shoppers survive between requests.
	Visitor Scope = "visitor"
)

// ErrUnknownScope is returned for scopes outside Shopper, Admin, Visitor.
var ErrUnknownScope = errors.New("unknown credential scope")

// CookieName returns the cookie a scope is persisted under.
func (s Scope) CookieName() string {
	switch s {
	case Shopper:
		return "token"
	case Admin:
		return "admin_token"
	case Visitor:
		return "visitor"
	}
	return ""
}

// TTL returns how long a credential of this scope stays valid.
func (s Scope) TTL() time.Duration {
	switch s {
	case Shopper, Visitor:
		return 7 * 24 * time.Hour
	case Admin:
		return 24 * time.Hour
	}
	return 0
}

func (s Scope) validate() error {
	if s.CookieName() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownScope, string(s))
	}
	return nil
}

// Store persists at most one credential per scope. Set overwrites.
type Store interface {
	Get(scope Scope) (string, bool)
	Set(scope Scope, value string) error
	Clear(scope Scope) error
}

// Present reports whether a credential is held for scope.
func Present(store Store, scope Scope) bool {
	if store == nil {
		return false
	}
	_, ok := store.Get(scope)
	return ok
}
