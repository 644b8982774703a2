// Package reports runs read-only aggregate queries for the dashboard and
// the sales, expense and product reports. Cancelled invoices are excluded
// from every monetary aggregate.
package reports

// Dashboard is the landing-page snapshot.
type Dashboard struct {
	PendingInvoices   int     `json:"pending_invoices" db:"pending_invoices"`
	Customers         int     `json:"customers" db:"customers"`
	Products          int     `json:"products" db:"products"`
	LowStockProducts  int     `json:"low_stock_products" db:"low_stock_products"`
	MonthSales        float64 `json:"month_sales" db:"month_sales"`
	MonthSalesDisplay string  `json:"month_sales_display" db:"-"`
}

// SalesSummary aggregates invoices between two dates.
type SalesSummary struct {
	From               string  `json:"from"`
	To                 string  `json:"to"`
	InvoiceCount       int     `json:"invoice_count" db:"invoice_count"`
	Subtotal           float64 `json:"subtotal" db:"subtotal"`
	Tax                float64 `json:"tax" db:"tax"`
	Total              float64 `json:"total" db:"total"`
	Collected          float64 `json:"collected" db:"collected"`
	Outstanding        float64 `json:"outstanding"`
	TotalDisplay       string  `json:"total_display"`
	CollectedDisplay   string  `json:"collected_display"`
	OutstandingDisplay string  `json:"outstanding_display"`
}

// ExpenseCategory is one row of the expense-by-category report.
type ExpenseCategory struct {
	Category      string  `json:"category" db:"category"`
	Count         int     `json:"count" db:"count"`
	Amount        float64 `json:"amount" db:"amount"`
	AmountDisplay string  `json:"amount_display" db:"-"`
}

// TopProduct is one row of the top-products report.
type TopProduct struct {
	ProductID      int64   `json:"product_id" db:"product_id"`
	Name           string  `json:"name" db:"name"`
	QuantitySold   float64 `json:"quantity_sold" db:"quantity_sold"`
	Revenue        float64 `json:"revenue" db:"revenue"`
	RevenueDisplay string  `json:"revenue_display" db:"-"`
}
