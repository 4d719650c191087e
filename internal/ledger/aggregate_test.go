package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mk(date string, kind core.Kind, category, amount string, currency core.Currency) core.Transaction {
	return core.Transaction{Date: date, Kind: kind, Category: category, Amount: dec(amount), Currency: currency}
}

func TestBalance(t *testing.T) {
	txs := []core.Transaction{
		mk("2024-12-01", core.KindIncome, "Salary", "3000", core.INR),
		mk("2024-12-02", core.KindExpense, "Food", "50", core.INR),
		mk("2024-12-03", core.KindExpense, "Food", "20.5", core.USD),
	}

	inr := Balance(txs, core.INR)
	assert.True(t, inr.TotalIncome.Equal(dec("3000")))
	assert.True(t, inr.TotalExpenses.Equal(dec("50")))
	assert.True(t, inr.Balance.Equal(dec("2950")))

	all := Balance(txs, "")
	assert.True(t, all.TotalExpenses.Equal(dec("70.5")))

	empty := Balance(nil, core.GBP)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.True(t, empty.TotalExpenses.IsZero())
	assert.True(t, empty.Balance.IsZero())
	assert.Equal(t, "0.00", empty.Balance.StringFixed(2))
}

func TestBreakdown(t *testing.T) {
	txs := []core.Transaction{
		mk("2025-01-01", core.KindIncome, "Salary", "3000", core.INR),
		mk("2025-01-02", core.KindExpense, "Housing", "800", core.INR),
		mk("2025-01-04", core.KindExpense, "Food", "75", core.INR),
		mk("2025-01-20", core.KindExpense, "Food", "25", core.USD),
		mk("2025-02-01", core.KindExpense, "Food", "999", core.INR),
		mk("2024-01-15", core.KindIncome, "Gift", "1", core.INR),
	}

	b := Breakdown(txs, "2025-01")
	assert.Equal(t, "2025-01", b.Month)
	assert.True(t, b.IncomeTotal.Equal(dec("3000")))
	assert.True(t, b.ExpenseTotal.Equal(dec("900")))
	require.Len(t, b.ExpenseByCategory, 2)
	assert.True(t, b.ExpenseByCategory["Food"].Equal(dec("100")))
	assert.True(t, b.ExpenseByCategory["Housing"].Equal(dec("800")))
	require.Len(t, b.IncomeByCategory, 1)
	_, hasGift := b.IncomeByCategory["Gift"]
	assert.False(t, hasGift, "categories without rows in the month are absent")

	empty := Breakdown(txs, "2023-07")
	assert.True(t, empty.IncomeTotal.IsZero())
	assert.NotNil(t, empty.ExpenseByCategory)
	assert.Empty(t, empty.ExpenseByCategory)
}

func TestReport(t *testing.T) {
	r := Report(Breakdown([]core.Transaction{
		mk("2025-01-01", core.KindIncome, "Salary", "3000", core.INR),
		mk("2025-01-02", core.KindExpense, "Housing", "800", core.INR),
		mk("2025-01-04", core.KindExpense, "Food", "75", core.INR),
	}, "2025-01"))
	assert.True(t, r.NetIncome.Equal(dec("2125")))
	assert.Equal(t, "70.8", r.SavingsRate.String())

	noIncome := Report(Breakdown([]core.Transaction{
		mk("2025-01-02", core.KindExpense, "Housing", "800", core.INR),
	}, "2025-01"))
	assert.True(t, noIncome.SavingsRate.IsZero())
	assert.True(t, noIncome.NetIncome.Equal(dec("-800")))
}

func TestTrend(t *testing.T) {
	points := Trend([]core.Transaction{
		mk("2025-01-01", core.KindIncome, "Salary", "3000", core.INR),
		mk("2024-12-05", core.KindIncome, "Freelance", "500", core.INR),
		mk("2025-01-02", core.KindExpense, "Housing", "800", core.INR),
		mk("2024-12-02", core.KindExpense, "Food", "50", core.INR),
	})
	require.Len(t, points, 2)
	assert.Equal(t, "2024-12", points[0].Month)
	assert.True(t, points[0].Net.Equal(dec("450")))
	assert.Equal(t, "2025-01", points[1].Month)
	assert.True(t, points[1].Income.Equal(dec("3000")))
	assert.True(t, points[1].Expenses.Equal(dec("800")))

	assert.Empty(t, Trend(nil))
}

func TestSortedCategories(t *testing.T) {
	got := SortedCategories(map[string]decimal.Decimal{
		"Food":    dec("100"),
		"Housing": dec("800"),
		"Bills":   dec("100"),
	})
	assert.Equal(t, []string{"Housing", "Bills", "Food"}, got)
}

func TestTransactionFilterMatches(t *testing.T) {
	tx := mk("2025-01-04", core.KindExpense, "Food", "75", core.INR)
	assert.True(t, TransactionFilter{}.Matches(tx))
	assert.True(t, TransactionFilter{Month: "2025-01", Currency: core.INR, Kind: core.KindExpense}.Matches(tx))
	assert.False(t, TransactionFilter{Month: "2025-02"}.Matches(tx))
	assert.False(t, TransactionFilter{Currency: core.USD}.Matches(tx))
	assert.False(t, TransactionFilter{Kind: core.KindIncome}.Matches(tx))
}
