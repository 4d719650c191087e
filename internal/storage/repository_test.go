package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
	"homebook/internal/ledger"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "finance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func insert(t *testing.T, repo *SQLiteRepository, date string, kind core.Kind, category, amount string, currency core.Currency) core.Transaction {
	t.Helper()
	stored, err := repo.InsertTransaction(context.Background(), core.Transaction{
		Date:        date,
		Kind:        kind,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		Currency:    currency,
		Description: category + " on " + date,
		CreatedAt:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return stored
}

func TestNewSQLiteRepository_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")
	first, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	insert(t, first, "2025-01-01", core.KindIncome, "Salary", "10", core.INR)
	require.NoError(t, first.Close())

	second, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer second.Close()

	txs, err := second.ListTransactions(context.Background(), ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestNewSQLiteRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a sqlite database, just text padding it out"), 0o644))

	_, err := NewSQLiteRepository(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStorage)

	var serr *core.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "open ledger", serr.Op)
}

func TestNewSQLiteRepository_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := NewSQLiteRepository(filepath.Join(blocker, "finance.db"))
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.ErrorContains(t, err, "create db directory")
}

func TestInsertTransaction_RoundTrip(t *testing.T) {
	repo := newRepo(t)
	stored := insert(t, repo, "2024-12-01", core.KindIncome, "Salary", "3000.25", core.INR)

	assert.Equal(t, int64(1), stored.ID)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("3000.25")))
	assert.Equal(t, core.KindIncome, stored.Kind)
	assert.Equal(t, "Salary on 2024-12-01", stored.Description)
	assert.True(t, stored.CreatedAt.Equal(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))

	second := insert(t, repo, "2024-12-01", core.KindExpense, "Food", "1", core.INR)
	assert.Greater(t, second.ID, stored.ID)
}

func TestListTransactions_OrderAndFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a := insert(t, repo, "2025-01-05", core.KindIncome, "Salary", "100", core.INR)
	b := insert(t, repo, "2025-02-01", core.KindExpense, "Food", "40", core.USD)
	c := insert(t, repo, "2025-01-05", core.KindExpense, "Food", "10", core.INR)
	d := insert(t, repo, "2024-12-31", core.KindExpense, "Housing", "5", core.INR)

	all, err := repo.ListTransactions(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []int64{b.ID, c.ID, a.ID, d.ID}, []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID})

	limited, err := repo.ListTransactions(ctx, ledger.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, []int64{limited[0].ID, limited[1].ID})

	jan, err := repo.ListTransactions(ctx, ledger.TransactionFilter{Month: "2025-01"})
	require.NoError(t, err)
	assert.Len(t, jan, 2)

	usd, err := repo.ListTransactions(ctx, ledger.TransactionFilter{Currency: core.USD})
	require.NoError(t, err)
	require.Len(t, usd, 1)
	assert.Equal(t, b.ID, usd[0].ID)

	expenses, err := repo.ListTransactions(ctx, ledger.TransactionFilter{Kind: core.KindExpense, Currency: core.INR})
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestListTransactions_FilterValuesAreBound(t *testing.T) {
	repo := newRepo(t)
	insert(t, repo, "2025-01-05", core.KindIncome, "Salary", "100", core.INR)

	txs, err := repo.ListTransactions(context.Background(),
		ledger.TransactionFilter{Currency: core.Currency("INR' OR '1'='1")})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDeleteTransaction(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tx := insert(t, repo, "2025-01-05", core.KindIncome, "Salary", "100", core.INR)

	ok, err := repo.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	next := insert(t, repo, "2025-01-05", core.KindIncome, "Salary", "100", core.INR)
	assert.Greater(t, next.ID, tx.ID, "ids are not reused")
}

func TestClearAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	insert(t, repo, "2025-01-05", core.KindIncome, "Salary", "100", core.INR)

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO budgets (month, category, allocated_amount) VALUES (?, ?, ?)`, "2025-01", "Food", "200")
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO savings_goals (name, target_amount) VALUES (?, ?)`, "Holiday", "1000")
	require.NoError(t, err)

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO budgets (month, category, allocated_amount) VALUES (?, ?, ?)`, "2025-01", "Food", "300")
	assert.Error(t, err, "budgets are unique per month and category")

	require.NoError(t, repo.ClearAll(ctx))

	txs, err := repo.ListTransactions(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)

	for _, table := range []string{"budgets", "savings_goals"} {
		var n int
		require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func TestDefaultCurrency(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	c, err := repo.DefaultCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.INR, c)

	require.NoError(t, repo.SetDefaultCurrency(ctx, core.GBP))
	c, err = repo.DefaultCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.GBP, c)

	_, err = repo.db.ExecContext(ctx, `DELETE FROM currency_settings`)
	require.NoError(t, err)
	c, err = repo.DefaultCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.INR, c)

	require.NoError(t, repo.SetDefaultCurrency(ctx, core.USD))
	c, _ = repo.DefaultCurrency(ctx)
	assert.Equal(t, core.USD, c)
}

func TestClosedRepositoryFails(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	_, err = repo.ListTransactions(context.Background(), ledger.TransactionFilter{})
	assert.Error(t, err)
}
