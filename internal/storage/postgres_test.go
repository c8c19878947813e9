package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableString(t *testing.T) {
	assert.False(t, nullableString(nil).Valid)

	s := "12345"
	ns := nullableString(&s)
	require.True(t, ns.Valid)
	assert.Equal(t, "12345", ns.String)
}

func TestInsertSQLColumnCount(t *testing.T) {
	// The insert statement must bind exactly the twelve record columns.
	assert.Equal(t, 12, strings.Count(insertSQL, "$"))
	for _, col := range []string{
		"invoice_no", "stock_code", "description", "quantity", "invoice_date",
		"unit_price", "customer_id", "country", "total_amount", "is_return",
	} {
		assert.Contains(t, insertSQL, col)
	}
}

func TestAnalysisQueriesExcludeReturns(t *testing.T) {
	for name, query := range map[string]string{
		"top products":     topProductsSQL,
		"monthly revenue":  monthlyRevenueSQL,
		"top countries":    topCountriesSQL,
		"repeat customers": repeatCustomersSQL,
	} {
		assert.Contains(t, query, "is_return = false", name)
	}

	// Sentinel customers carry no identity and must not rank.
	assert.Contains(t, repeatCustomersSQL, "customer_id <> 'UNKNOWN'")
}
