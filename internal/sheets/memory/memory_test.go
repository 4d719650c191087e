package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
	"homebook/internal/export"
)

func TestSheetExportReplacesContents(t *testing.T) {
	ctx := context.Background()
	s := New("")

	ref, err := s.ExportTransactions(ctx, []core.Transaction{
		{Date: "2025-01-02", Kind: core.KindExpense, Category: "Housing", Amount: decimal.NewFromInt(800), Currency: core.INR, Description: "Rent, January"},
		{Date: "2025-01-01", Kind: core.KindIncome, Category: "Salary", Amount: decimal.NewFromInt(3000), Currency: core.INR},
	})
	require.NoError(t, err)
	assert.Equal(t, "Transactions!A1:F3", ref)

	values := s.Values()
	require.Len(t, values, 3)
	assert.Equal(t, export.Columns(), values[0])
	assert.Equal(t, []string{"2025-01-02", "expense", "Housing", "800.00", "INR", "Rent, January"}, values[1])

	ref, err = s.ExportTransactions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Transactions!A1:F1", ref)
	assert.Len(t, s.Values(), 1)
	assert.Equal(t, 2, s.Writes())
}

func TestSheetReadTransactions(t *testing.T) {
	ctx := context.Background()
	s := New("Ledger")

	empty, err := s.ReadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.ExportTransactions(ctx, []core.Transaction{
		{Date: "2024-12-02", Kind: core.KindExpense, Category: "Food", Amount: decimal.RequireFromString("50.5"), Currency: core.USD, Description: `say "hi"`},
	})
	require.NoError(t, err)

	txs, err := s.ReadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2024-12-02", txs[0].Date)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("50.50")))
	assert.Equal(t, `say "hi"`, txs[0].Description)
}
