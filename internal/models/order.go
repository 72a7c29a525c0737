package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the server-managed lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "en_attente"
	StatusConfirmed OrderStatus = "confirmee"
	StatusShipping  OrderStatus = "en_cours"
	StatusDelivered OrderStatus = "livree"
	StatusCancelled OrderStatus = "annulee"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipping, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderDetail is a frozen order line with its price at order time.
type OrderDetail struct {
	ID           int             `json:"id"`
	Produit      Product         `json:"produit"`
	Prix         decimal.Decimal `json:"prix"`
	Quantite     int             `json:"quantite"`
	MontantTotal decimal.Decimal `json:"montant_total"`
}

// Order is an immutable purchase record.
type Order struct {
	ID           int             `json:"id"`
	Client       *int            `json:"client"`
	NomComplet   string          `json:"nom_complet"`
	Email        string          `json:"email"`
	Telephone    string          `json:"telephone"`
	Adresse      string          `json:"adresse"`
	Ville        string          `json:"ville"`
	Statut       OrderStatus     `json:"statut"`
	Notes        string          `json:"notes"`
	MontantTotal decimal.Decimal `json:"montant_total"`
	Details      []OrderDetail   `json:"details"`
	DateCreation time.Time       `json:"date_creation"`
}

// DeliveryInfo is the checkout form sent to convertir_en_commande.
type DeliveryInfo struct {
	NomComplet string `json:"nom_complet" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Telephone  string `json:"telephone" validate:"required,max=30"`
	Adresse    string `json:"adresse" validate:"required,max=500"`
	Ville      string `json:"ville" validate:"required,max=100"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
