package listing

import (
	"slices"
	"strconv"
	"strings"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// Order sort keys.
const (
	OrderByDate   = "date_creation"
	OrderByAmount = "montant_total"
	OrderByName   = "nom_complet"
)

// OrderQuery selects a page of orders.
type OrderQuery struct {
	Search    string
	Status    models.OrderStatus
	SortBy    string
	Direction Direction
	Page      int
	PerPage   int
}

// ParseOrderQuery reads an OrderQuery from query parameters.
func ParseOrderQuery(params map[string]string) OrderQuery {
	q := OrderQuery{
		Search:    params["q"],
		Status:    models.OrderStatus(params["statut"]),
		SortBy:    params["tri"],
		Direction: parseDirection(params["ordre"], Desc),
		Page:      atoi(params["page"], 1),
		PerPage:   atoi(params["par_page"], DefaultPerPage),
	}
	switch q.SortBy {
	case OrderByDate, OrderByAmount, OrderByName:
	default:
		q.SortBy = OrderByDate
	}
	if !q.Status.Valid() {
		q.Status = ""
	}
	return q
}

// FilterOrders keeps orders matching the search text and status. The search
// looks at the customer name, the email and the order number.
func FilterOrders(orders []models.Order, q OrderQuery) []models.Order {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if q.Status != "" && o.Statut != q.Status {
			continue
		}
		if needle != "" &&
			!contains(o.NomComplet, needle) &&
			!contains(o.Email, needle) &&
			!strings.Contains(strconv.Itoa(o.ID), needle) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// SortOrders sorts orders in place, stable on ties.
func SortOrders(orders []models.Order, sortBy string, dir Direction) {
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		switch sortBy {
		case OrderByAmount:
			c := a.MontantTotal.Cmp(b.MontantTotal)
			if dir == Desc {
				return -c
			}
			return c
		case OrderByName:
			return compare(strings.ToLower(a.NomComplet), strings.ToLower(b.NomComplet), dir)
		default:
			return compare(a.DateCreation.UnixNano(), b.DateCreation.UnixNano(), dir)
		}
	})
}

// Orders filters, sorts and paginates orders without modifying the input.
func Orders(orders []models.Order, q OrderQuery) Page[models.Order] {
	filtered := FilterOrders(orders, q)
	SortOrders(filtered, q.SortBy, q.Direction)
	return Paginate(filtered, q.Page, q.PerPage)
}
