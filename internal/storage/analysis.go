package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"retailetl/internal/errors"
)

// TopProduct is one row of the revenue-by-product ranking.
type TopProduct struct {
	StockCode        string
	Description      sql.NullString
	TotalQuantity    int64
	TotalRevenue     float64
	TransactionCount int64
}

// MonthlyRevenue is one row of the revenue-by-calendar-month series.
type MonthlyRevenue struct {
	Year             int
	Month            int
	Revenue          float64
	TransactionCount int64
	UniqueCustomers  int64
}

// CountryRevenue is one row of the revenue-by-country ranking.
type CountryRevenue struct {
	Country          string
	TotalRevenue     float64
	TransactionCount int64
	UniqueCustomers  int64
}

// RepeatCustomer is one row of the repeat-customer ranking. The UNKNOWN
// sentinel is excluded.
type RepeatCustomer struct {
	CustomerID       string
	TransactionCount int64
	TotalSpent       float64
	AvgTransaction   float64
	FirstPurchase    time.Time
	LastPurchase     time.Time
}

// AnalysisResults bundles the canned analytical queries run after a load.
type AnalysisResults struct {
	Summary         TableSummary
	TopProducts     []TopProduct
	MonthlyRevenue  []MonthlyRevenue
	TopCountries    []CountryRevenue
	RepeatCustomers []RepeatCustomer
}

// TableSummary holds the headline numbers for the loaded table.
type TableSummary struct {
	TotalRows    int64
	TotalRevenue float64
	ReturnRows   int64
	FirstInvoice time.Time
	LastInvoice  time.Time
}

const topProductsSQL = `
SELECT stock_code, description,
	SUM(quantity) AS total_quantity_sold,
	SUM(total_amount) AS total_revenue,
	COUNT(*) AS transaction_count
FROM retail_transactions
WHERE is_return = false
GROUP BY stock_code, description
ORDER BY total_revenue DESC
LIMIT 10`

const monthlyRevenueSQL = `
SELECT year, month,
	SUM(total_amount) AS monthly_revenue,
	COUNT(*) AS transaction_count,
	COUNT(DISTINCT customer_id) AS unique_customers
FROM retail_transactions
WHERE is_return = false
GROUP BY year, month
ORDER BY year, month`

const topCountriesSQL = `
SELECT country,
	SUM(total_amount) AS total_revenue,
	COUNT(*) AS transaction_count,
	COUNT(DISTINCT customer_id) AS unique_customers
FROM retail_transactions
WHERE is_return = false
GROUP BY country
ORDER BY total_revenue DESC
LIMIT 10`

const repeatCustomersSQL = `
SELECT customer_id,
	COUNT(*) AS transaction_count,
	SUM(total_amount) AS total_spent,
	AVG(total_amount) AS avg_transaction_value,
	MIN(invoice_date) AS first_purchase,
	MAX(invoice_date) AS last_purchase
FROM retail_transactions
WHERE is_return = false AND customer_id <> 'UNKNOWN'
GROUP BY customer_id
HAVING COUNT(*) > 1
ORDER BY total_spent DESC
LIMIT 20`

const summarySQL = `
SELECT COUNT(*),
	COALESCE(SUM(total_amount) FILTER (WHERE is_return = false), 0),
	COUNT(*) FILTER (WHERE is_return = true),
	MIN(invoice_date), MAX(invoice_date)
FROM retail_transactions`

// RunAnalysis executes the canned analysis queries against the loaded
// table.
func (l *Loader) RunAnalysis(ctx context.Context) (*AnalysisResults, error) {
	results := &AnalysisResults{}

	if err := l.querySummary(ctx, results); err != nil {
		return nil, err
	}
	if err := l.queryTopProducts(ctx, results); err != nil {
		return nil, err
	}
	if err := l.queryMonthlyRevenue(ctx, results); err != nil {
		return nil, err
	}
	if err := l.queryTopCountries(ctx, results); err != nil {
		return nil, err
	}
	if err := l.queryRepeatCustomers(ctx, results); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "analysis queries completed",
		slog.Int64("total_rows", results.Summary.TotalRows),
		slog.Int("top_products", len(results.TopProducts)),
		slog.Int("monthly_revenue_rows", len(results.MonthlyRevenue)),
		slog.Int("top_countries", len(results.TopCountries)),
		slog.Int("repeat_customers", len(results.RepeatCustomers)))

	return results, nil
}

func (l *Loader) querySummary(ctx context.Context, results *AnalysisResults) error {
	var first, last sql.NullTime
	err := l.db.QueryRowContext(ctx, summarySQL).Scan(
		&results.Summary.TotalRows, &results.Summary.TotalRevenue,
		&results.Summary.ReturnRows, &first, &last)
	if err != nil {
		return errors.NewStorageError("summary query failed", err)
	}
	results.Summary.FirstInvoice = first.Time
	results.Summary.LastInvoice = last.Time
	return nil
}

func (l *Loader) queryTopProducts(ctx context.Context, results *AnalysisResults) error {
	rows, err := l.db.QueryContext(ctx, topProductsSQL)
	if err != nil {
		return errors.NewStorageError("top products query failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.StockCode, &p.Description, &p.TotalQuantity, &p.TotalRevenue, &p.TransactionCount); err != nil {
			return errors.NewStorageError("top products scan failed", err)
		}
		results.TopProducts = append(results.TopProducts, p)
	}
	return rows.Err()
}

func (l *Loader) queryMonthlyRevenue(ctx context.Context, results *AnalysisResults) error {
	rows, err := l.db.QueryContext(ctx, monthlyRevenueSQL)
	if err != nil {
		return errors.NewStorageError("monthly revenue query failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m MonthlyRevenue
		if err := rows.Scan(&m.Year, &m.Month, &m.Revenue, &m.TransactionCount, &m.UniqueCustomers); err != nil {
			return errors.NewStorageError("monthly revenue scan failed", err)
		}
		results.MonthlyRevenue = append(results.MonthlyRevenue, m)
	}
	return rows.Err()
}

func (l *Loader) queryTopCountries(ctx context.Context, results *AnalysisResults) error {
	rows, err := l.db.QueryContext(ctx, topCountriesSQL)
	if err != nil {
		return errors.NewStorageError("top countries query failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CountryRevenue
		if err := rows.Scan(&c.Country, &c.TotalRevenue, &c.TransactionCount, &c.UniqueCustomers); err != nil {
			return errors.NewStorageError("top countries scan failed", err)
		}
		results.TopCountries = append(results.TopCountries, c)
	}
	return rows.Err()
}

func (l *Loader) queryRepeatCustomers(ctx context.Context, results *AnalysisResults) error {
	rows, err := l.db.QueryContext(ctx, repeatCustomersSQL)
	if err != nil {
		return errors.NewStorageError("repeat customers query failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c RepeatCustomer
		if err := rows.Scan(&c.CustomerID, &c.TransactionCount, &c.TotalSpent, &c.AvgTransaction, &c.FirstPurchase, &c.LastPurchase); err != nil {
			return errors.NewStorageError("repeat customers scan failed", err)
		}
		results.RepeatCustomers = append(results.RepeatCustomers, c)
	}
	return rows.Err()
}
