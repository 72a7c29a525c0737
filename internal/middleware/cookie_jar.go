package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieOptions are the attributes set on every credential cookie.
type CookieOptions struct {
	Secure bool
}

// FiberJar adapts one request's cookies to credentials.CookieJar. Request
// cookies are read once up front; writes are recorded so that a later read
// in the same request sees them.
type FiberJar struct {
	c    *fiber.Ctx
	opts CookieOptions

	mu      sync.Mutex
	cookies map[string]string
}

// NewFiberJar snapshots the request cookies of c.
func NewFiberJar(c *fiber.Ctx, opts CookieOptions) *FiberJar {
	jar := &FiberJar{c: c, opts: opts, cookies: make(map[string]string)}
	c.Request().Header.VisitAllCookie(func(key, value []byte) {
		jar.cookies[string(key)] = string(value)
	})
	return jar
}

// Cookie returns the current value of name, or "".
func (j *FiberJar) Cookie(name string) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cookies[name]
}

// SetCookie writes an HTTP-only cookie valid for the whole site.
func (j *FiberJar) SetCookie(name, value string, expires time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = value
	j.c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   j.opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires name in the browser.
func (j *FiberJar) ClearCookie(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
	j.c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   j.opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
