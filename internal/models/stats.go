package models

import "github.com/shopspring/decimal"

// StatusCount is one bucket of the order status distribution.
type StatusCount struct {
	Statut OrderStatus `json:"statut"`
	Count  int         `json:"count"`
}

// OrderStats is served by /orders/stats/orders/.
type OrderStats struct {
	TotalOrders        int           `json:"total_orders"`
	PendingOrders      int           `json:"pending_orders"`
	ConfirmedOrders    int           `json:"confirmed_orders"`
	StatusDistribution []StatusCount `json:"status_distribution"`
	RecentOrders       int           `json:"recent_orders"`
}

// SumAggregate wraps a nullable SQL SUM result.
type SumAggregate struct {
	Total decimal.NullDecimal `json:"total"`
}

// AvgAggregate wraps a nullable SQL AVG result.
type AvgAggregate struct {
	Avg decimal.NullDecimal `json:"avg"`
}

// TopProduct is a best seller over the last 30 days.
type TopProduct struct {
	ProduitID     int             `json:"produit__id"`
	ProduitNom    string          `json:"produit__nom"`
	TotalQuantity int             `json:"total_quantity"`
	TotalSales    decimal.Decimal `json:"total_sales"`
}

// SalesStats is served by /orders/stats/sales/.
type SalesStats struct {
	TotalSales        SumAggregate `json:"total_sales"`
	RecentSales       SumAggregate `json:"recent_sales"`
	AverageOrderValue AvgAggregate `json:"average_order_value"`
	TopProducts       []TopProduct `json:"top_products"`
}

// TopCustomer ranks customers by amount spent.
type TopCustomer struct {
	Username   *string         `json:"client__username"`
	NomComplet string          `json:"nom_complet"`
	Email      string          `json:"email"`
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// UserStats is served by /orders/stats/users/.
type UserStats struct {
	TotalCustomers  int           `json:"total_customers"`
	RepeatCustomers int           `json:"repeat_customers"`
	NewCustomers    int           `json:"new_customers"`
	TopCustomers    []TopCustomer `json:"top_customers"`
}

// Dashboard bundles the three statistics endpoints.
type Dashboard struct {
	Orders OrderStats `json:"orders"`
	Sales  SalesStats `json:"sales"`
	Users  UserStats  `json:"users"`
}
