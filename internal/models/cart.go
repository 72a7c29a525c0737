package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the server-owned cart.
type CartItem struct {
	ID           int             `json:"id"`
	Produit      Product         `json:"produit"`
	Quantite     int             `json:"quantite"`
	MontantTotal decimal.Decimal `json:"montant_total"`
	DateAjout    time.Time       `json:"date_ajout"`
}

// Cart mirrors the backend's panier. Totals are computed server side only.
type Cart struct {
	ID             int             `json:"id"`
	Client         *int            `json:"client"`
	Articles       []CartItem      `json:"articles"`
	MontantTotal   decimal.Decimal `json:"montant_total"`
	NombreArticles int             `json:"nombre_articles"`
	DateCreation   time.Time       `json:"date_creation"`
}

// Clone returns a copy that does not share the articles slice.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.Client != nil {
		client := *c.Client
		out.Client = &client
	}
	if c.Articles != nil {
		out.Articles = make([]CartItem, len(c.Articles))
		copy(out.Articles, c.Articles)
	}
	return &out
}
