package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups perfumes in the catalog.
type Category struct {
	ID           int       `json:"id"`
	Nom          string    `json:"nom"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Image        *string   `json:"image"`
	DateCreation time.Time `json:"date_creation"`
}

// ProductImage is one secondary image of a product.
type ProductImage struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// Product is a perfume as served by the catalog endpoints.
type Product struct {
	ID               int             `json:"id"`
	Nom              string          `json:"nom"`
	Slug             string          `json:"slug"`
	Categorie        *Category       `json:"categorie"`
	Description      string          `json:"description"`
	Prix             decimal.Decimal `json:"prix"`
	Stock            int             `json:"stock"`
	Disponible       bool            `json:"disponible"`
	ImagePrincipale  *string         `json:"image_principale"`
	Images           []ProductImage  `json:"images"`
	Marque           string          `json:"marque"`
	Volume           string          `json:"volume"`
	DateCreation     time.Time       `json:"date_creation"`
	DateModification *time.Time      `json:"date_modification,omitempty"`
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Nom         string          `json:"nom" validate:"required,min=2,max=200"`
	CategorieID int             `json:"categorie_id" validate:"required,gt=0"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	Prix        decimal.Decimal `json:"prix" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Disponible  bool            `json:"disponible"`
	Marque      string          `json:"marque" validate:"required,max=100"`
	Volume      string          `json:"volume" validate:"omitempty,max=50"`
}
