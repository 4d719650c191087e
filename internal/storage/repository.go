// Package storage is the SQLite-backed ledger repository.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"homebook/internal/core"
	"homebook/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ ledger.Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens dbPath, creating and migrating it when needed. Any
// failure comes back as a core.StorageError.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, core.NewStorageError("open ledger", err)
	}
	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func openDB(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: SQLite allows a single writer and the ledger assumes exclusive access.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction implements ledger.Repository
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Date:        tx.Date,
		Type:        string(tx.Kind),
		Category:    tx.Category,
		Amount:      tx.Amount,
		Currency:    string(tx.Currency),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"date", row.Date,
		"type", row.Type,
		"amount", row.Amount.String(),
		"currency", row.Currency)

	return toCore(row), nil
}

// GetTransaction implements ledger.Repository
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, bool, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return toCore(row), true, nil
}

// DeleteTransaction implements ledger.Repository
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return n > 0, nil
}

// ListTransactions implements ledger.Repository
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f ledger.TransactionFilter) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{
		Currency: string(f.Currency),
		Type:     string(f.Kind),
		Month:    f.Month,
		Limit:    f.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = toCore(row)
	}
	return txs, nil
}

// ClearAll implements ledger.Repository. The three deletes commit together.
func (r *SQLiteRepository) ClearAll(ctx context.Context) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q := r.queries.WithTx(tx)
	if err = q.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if err = q.DeleteAllBudgets(ctx); err != nil {
		return fmt.Errorf("delete budgets: %w", err)
	}
	if err = q.DeleteAllSavingsGoals(ctx); err != nil {
		return fmt.Errorf("delete savings goals: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}

	slog.InfoContext(ctx, "Ledger tables cleared")
	return nil
}

// DefaultCurrency implements ledger.Repository. A missing settings row reads as INR.
func (r *SQLiteRepository) DefaultCurrency(ctx context.Context) (core.Currency, error) {
	c, err := r.queries.GetDefaultCurrency(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultCurrency, nil
	}
	if err != nil {
		return "", fmt.Errorf("get default currency: %w", err)
	}
	return core.Currency(c), nil
}

// SetDefaultCurrency implements ledger.Repository
func (r *SQLiteRepository) SetDefaultCurrency(ctx context.Context, c core.Currency) error {
	if err := r.queries.UpsertDefaultCurrency(ctx, string(c)); err != nil {
		return fmt.Errorf("set default currency: %w", err)
	}
	return nil
}

func toCore(row Transaction) core.Transaction {
	return core.Transaction{
		ID:          row.ID,
		Date:        row.Date,
		Kind:        core.Kind(row.Type),
		Category:    row.Category,
		Amount:      row.Amount,
		Currency:    core.Currency(row.Currency),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}
