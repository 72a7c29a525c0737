package listing

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// Product sort keys. An empty key keeps the backend's order.
const (
	ProductByName  = "nom"
	ProductByPrice = "prix"
	ProductByStock = "stock"
	ProductByDate  = "date_creation"
)

// ProductQuery selects a page of products.
type ProductQuery struct {
	Search        string
	Category      string
	MinPrice      decimal.NullDecimal
	MaxPrice      decimal.NullDecimal
	AvailableOnly bool
	SortBy        string
	Direction     Direction
	Page          int
	PerPage       int
}

// ParseProductQuery reads a ProductQuery from query parameters.
func ParseProductQuery(params map[string]string) ProductQuery {
	q := ProductQuery{
		Search:        params["q"],
		Category:      params["categorie"],
		AvailableOnly: params["disponible"] == "1" || params["disponible"] == "true",
		SortBy:        params["tri"],
		Direction:     parseDirection(params["ordre"], Asc),
		Page:          atoi(params["page"], 1),
		PerPage:       atoi(params["par_page"], DefaultPerPage),
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(params["prix_min"])); err == nil {
		q.MinPrice = decimal.NewNullDecimal(d)
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(params["prix_max"])); err == nil {
		q.MaxPrice = decimal.NewNullDecimal(d)
	}
	switch q.SortBy {
	case ProductByName, ProductByPrice, ProductByStock, ProductByDate:
	default:
		q.SortBy = ""
	}
	return q
}

// FilterProducts keeps products matching the search text (name, brand,
// description), the category slug, the price range and availability.
func FilterProducts(products []models.Product, q ProductQuery) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !contains(p.Nom, needle) && !contains(p.Marque, needle) && !contains(p.Description, needle) {
			continue
		}
		if q.Category != "" && (p.Categorie == nil || p.Categorie.Slug != q.Category) {
			continue
		}
		if q.MinPrice.Valid && p.Prix.LessThan(q.MinPrice.Decimal) {
			continue
		}
		if q.MaxPrice.Valid && p.Prix.GreaterThan(q.MaxPrice.Decimal) {
			continue
		}
		if q.AvailableOnly && (!p.Disponible || p.Stock <= 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts sorts products in place. An empty key is a no-op.
func SortProducts(products []models.Product, sortBy string, dir Direction) {
	if sortBy == "" {
		return
	}
	slices.SortStableFunc(products, func(a, b models.Product) int {
		switch sortBy {
		case ProductByPrice:
			c := a.Prix.Cmp(b.Prix)
			if dir == Desc {
				return -c
			}
			return c
		case ProductByStock:
			return compare(a.Stock, b.Stock, dir)
		case ProductByDate:
			return compare(a.DateCreation.UnixNano(), b.DateCreation.UnixNano(), dir)
		default:
			return compare(strings.ToLower(a.Nom), strings.ToLower(b.Nom), dir)
		}
	})
}

// Products filters, sorts and paginates products without modifying the input.
func Products(products []models.Product, q ProductQuery) Page[models.Product] {
	filtered := FilterProducts(products, q)
	SortProducts(filtered, q.SortBy, q.Direction)
	return Paginate(filtered, q.Page, q.PerPage)
}
