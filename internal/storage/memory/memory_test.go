package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
	"homebook/internal/ledger"
)

func tx(date string, kind core.Kind, currency core.Currency) core.Transaction {
	return core.Transaction{Date: date, Kind: kind, Category: "c", Amount: decimal.NewFromInt(1), Currency: currency}
}

func TestStoreOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, in := range []core.Transaction{
		tx("2025-01-02", core.KindIncome, core.INR),
		tx("2025-02-01", core.KindExpense, core.USD),
		tx("2025-01-02", core.KindExpense, core.INR),
	} {
		_, err := s.InsertTransaction(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.ListTransactions(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	ids := []int64{all[0].ID, all[1].ID, all[2].ID}
	assert.Equal(t, []int64{2, 3, 1}, ids)

	jan, _ := s.ListTransactions(ctx, ledger.TransactionFilter{Month: "2025-01"})
	assert.Len(t, jan, 2)

	usd, _ := s.ListTransactions(ctx, ledger.TransactionFilter{Currency: core.USD})
	assert.Len(t, usd, 1)

	limited, _ := s.ListTransactions(ctx, ledger.TransactionFilter{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, int64(2), limited[0].ID)
}

func TestStoreIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, _ := s.InsertTransaction(ctx, tx("2025-01-01", core.KindIncome, core.INR))
	ok, err := s.DeleteTransaction(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.DeleteTransaction(ctx, first.ID)
	assert.False(t, ok)

	require.NoError(t, s.ClearAll(ctx))
	second, _ := s.InsertTransaction(ctx, tx("2025-01-01", core.KindIncome, core.INR))
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, 1, s.Len())
}

func TestStoreCurrency(t *testing.T) {
	ctx := context.Background()
	s := New()

	c, err := s.DefaultCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.INR, c)

	require.NoError(t, s.SetDefaultCurrency(ctx, core.EUR))
	require.NoError(t, s.ClearAll(ctx))
	c, _ = s.DefaultCurrency(ctx)
	assert.Equal(t, core.EUR, c)
}
