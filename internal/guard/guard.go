// Package guard decides, from credential presence alone, whether a
// navigation may proceed or must be redirected. Full verification happens
// later in the session stores.
package guard

import (
	"net/url"
	"strings"
)

// Rules lists the paths the guard knows about.
type Rules struct {
	ShopperProtected []string
	ShopperLogin     string
	ShopperRegister  string
	ShopperProfile   string
	CallbackParam    string

	AdminPrefix    string
	AdminPublic    []string
	AdminLogin     string
	AdminDashboard string
}

// DefaultRules are the storefront's routes.
func DefaultRules() Rules {
	return Rules{
		ShopperProtected: []string{"/profil", "/commandes"},
		ShopperLogin:     "/connexion",
		ShopperRegister:  "/inscription",
		ShopperProfile:   "/profil",
		CallbackParam:    "callbackUrl",
		AdminPrefix:      "/admin",
		AdminPublic:      []string{"/admin/connexion-admin", "/admin/deconnexion-admin"},
		AdminLogin:       "/admin/connexion-admin",
		AdminDashboard:   "/admin/tableau-de-bord",
	}
}

// Input is what the guard looks at for one navigation.
type Input struct {
	Path    string
	Shopper bool
	Admin   bool
}

// Decision is the outcome of Evaluate. An empty Redirect means allow.
type Decision struct {
	Redirect string
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Evaluate applies the rules in order; the first match wins.
func (r Rules) Evaluate(in Input) Decision {
	path := normalize(in.Path)

	if !in.Shopper && matchesAny(path, r.ShopperProtected) {
		q := url.Values{}
		q.Set(r.CallbackParam, path)
		return Decision{Redirect: r.ShopperLogin + "?" + q.Encode()}
	}
	if in.Shopper && (path == r.ShopperLogin || path == r.ShopperRegister) {
		return Decision{Redirect: r.ShopperProfile}
	}
	if !in.Admin && under(path, r.AdminPrefix) && !matchesAny(path, r.AdminPublic) {
		return Decision{Redirect: r.AdminLogin}
	}
	if in.Admin && path == r.AdminLogin {
		return Decision{Redirect: r.AdminDashboard}
	}
	return Decision{}
}

// SafeCallback returns target when it is a local path, fallback otherwise.
func SafeCallback(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

// under reports whether path is prefix itself or one of its sub-paths.
func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if under(path, p) {
			return true
		}
	}
	return false
}
