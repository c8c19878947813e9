// Package storage loads enhanced records into PostgreSQL and runs the
// canned analysis queries against the loaded table. It is a boundary
// collaborator: the pipeline core hands it records and never sees SQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"retailetl/internal/config"
	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

const transactionsTable = "retail_transactions"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS retail_transactions (
	id            BIGSERIAL PRIMARY KEY,
	invoice_no    TEXT NOT NULL,
	stock_code    TEXT NOT NULL,
	description   TEXT,
	quantity      BIGINT NOT NULL,
	invoice_date  TIMESTAMPTZ NOT NULL,
	unit_price    DOUBLE PRECISION NOT NULL,
	customer_id   TEXT,
	country       TEXT NOT NULL,
	total_amount  DOUBLE PRECISION NOT NULL,
	is_return     BOOLEAN NOT NULL,
	year          INT NOT NULL,
	month         INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_retail_transactions_invoice ON retail_transactions (invoice_no);
CREATE INDEX IF NOT EXISTS idx_retail_transactions_stock ON retail_transactions (stock_code);
CREATE INDEX IF NOT EXISTS idx_retail_transactions_date ON retail_transactions (invoice_date);
`

const insertSQL = `
INSERT INTO retail_transactions (
	invoice_no, stock_code, description, quantity, invoice_date,
	unit_price, customer_id, country, total_amount, is_return, year, month
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Loader writes enhanced records to PostgreSQL.
type Loader struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLoader opens and verifies a database connection. Callers treat a
// connection failure as a degraded run (load skipped), matching the
// pipeline's non-fatal persistence policy.
func NewLoader(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, errors.NewStorageError("failed to open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to connect to database", err)
	}

	logger.InfoContext(ctx, "connected to postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name))

	return &Loader{db: db, logger: logger}, nil
}

// Close releases the database connection pool.
func (l *Loader) Close() error {
	return l.db.Close()
}

// EnsureSchema creates the transactions table and its indexes if absent.
func (l *Loader) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createTableSQL); err != nil {
		return errors.NewStorageError("failed to create tables", err)
	}
	l.logger.InfoContext(ctx, "database schema ensured", slog.String("table", transactionsTable))
	return nil
}

// LoadRecords replaces the table contents with the given records inside a
// single transaction, so a failed load never leaves a partial batch.
func (l *Loader) LoadRecords(ctx context.Context, records []domain.EnhancedRecord) error {
	l.logger.InfoContext(ctx, "loading records",
		slog.Int("record_count", len(records)),
		slog.String("table", transactionsTable))

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE "+transactionsTable); err != nil {
		return errors.NewStorageError("failed to truncate table", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return errors.NewStorageError("failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.InvoiceNo, rec.StockCode, nullableString(rec.Description),
			rec.Quantity, rec.InvoiceDate, rec.UnitPrice,
			nullableString(rec.CustomerID), rec.Country,
			rec.TotalAmount, rec.IsReturn, rec.Year, rec.Month)
		if err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to insert record %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit load", err)
	}

	l.logger.InfoContext(ctx, "records loaded", slog.Int("record_count", len(records)))
	return nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
