package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name     string
		in       Input
		redirect string
	}{
		{"anonymous on orders", Input{Path: "/commandes"}, "/connexion?callbackUrl=%2Fcommandes"},
		{"anonymous on order detail", Input{Path: "/commandes/42"}, "/connexion?callbackUrl=%2Fcommandes%2F42"},
		{"anonymous on profile", Input{Path: "/profil/"}, "/connexion?callbackUrl=%2Fprofil"},
		{"anonymous on checkout", Input{Path: "/commande"}, ""},
		{"anonymous on catalog", Input{Path: "/catalogue"}, ""},
		{"similar prefix is not protected", Input{Path: "/profile-public"}, ""},
		{"shopper on login", Input{Path: "/connexion", Shopper: true}, "/profil"},
		{"shopper on register", Input{Path: "/inscription", Shopper: true}, "/profil"},
		{"shopper on orders", Input{Path: "/commandes", Shopper: true}, ""},
		{"anonymous on admin area", Input{Path: "/admin/commandes"}, "/admin/connexion-admin"},
		{"anonymous on admin root", Input{Path: "/admin"}, "/admin/connexion-admin"},
		{"shopper is not admin", Input{Path: "/admin/produits", Shopper: true}, "/admin/connexion-admin"},
		{"anonymous on admin login", Input{Path: "/admin/connexion-admin"}, ""},
		{"anonymous on admin logout", Input{Path: "/admin/deconnexion-admin"}, ""},
		{"admin on admin login", Input{Path: "/admin/connexion-admin", Admin: true}, "/admin/tableau-de-bord"},
		{"admin in admin area", Input{Path: "/admin/statistiques", Admin: true}, ""},
		{"admin is not shopper", Input{Path: "/profil", Admin: true}, "/connexion?callbackUrl=%2Fprofil"},
		{"administrator path is not admin", Input{Path: "/administrateur"}, ""},
		{"root", Input{Path: ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := rules.Evaluate(tt.in)
			assert.Equal(t, tt.redirect, d.Redirect)
			assert.Equal(t, tt.redirect == "", d.Allowed())
		})
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	rules := DefaultRules()
	in := Input{Path: "/commandes"}
	assert.Equal(t, rules.Evaluate(in), rules.Evaluate(in))
}

func TestSafeCallback(t *testing.T) {
	tests := []struct {
		target   string
		expected string
	}{
		{"/commandes", "/commandes"},
		{"/commandes?page=2", "/commandes?page=2"},
		{"", "/profil"},
		{"https://evil.example.com", "/profil"},
		{"//evil.example.com", "/profil"},
		{"/\\evil.example.com", "/profil"},
		{"commandes", "/profil"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeCallback(tt.target, "/profil"))
		})
	}
}
