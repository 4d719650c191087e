package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"homebook/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Balance sums income and expenses over txs, restricted to currency when it is set.
// An empty input yields zero totals.
func Balance(txs []core.Transaction, currency core.Currency) core.Balance {
	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if currency != "" && tx.Currency != currency {
			continue
		}
		switch tx.Kind {
		case core.KindIncome:
			income = income.Add(tx.Amount)
		case core.KindExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return core.Balance{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}
}

// Breakdown rolls up the transactions whose date starts with yearMonth. Categories
// appear in the maps only when they have at least one matching transaction.
func Breakdown(txs []core.Transaction, yearMonth string) core.MonthlyBreakdown {
	b := core.MonthlyBreakdown{
		Month:             yearMonth,
		IncomeTotal:       decimal.Zero,
		ExpenseTotal:      decimal.Zero,
		IncomeByCategory:  map[string]decimal.Decimal{},
		ExpenseByCategory: map[string]decimal.Decimal{},
	}
	for _, tx := range txs {
		if !strings.HasPrefix(tx.Date, yearMonth) {
			continue
		}
		switch tx.Kind {
		case core.KindIncome:
			b.IncomeTotal = b.IncomeTotal.Add(tx.Amount)
			b.IncomeByCategory[tx.Category] = b.IncomeByCategory[tx.Category].Add(tx.Amount)
		case core.KindExpense:
			b.ExpenseTotal = b.ExpenseTotal.Add(tx.Amount)
			b.ExpenseByCategory[tx.Category] = b.ExpenseByCategory[tx.Category].Add(tx.Amount)
		}
	}
	return b
}

// Report derives net income and savings rate from a breakdown. The savings rate is
// rounded to one decimal place and is zero when the month has no income.
func Report(b core.MonthlyBreakdown) core.MonthlyReport {
	net := b.Net()
	rate := decimal.Zero
	if b.IncomeTotal.IsPositive() {
		rate = net.Div(b.IncomeTotal).Mul(hundred).Round(1)
	}
	return core.MonthlyReport{
		MonthlyBreakdown: b,
		NetIncome:        net,
		SavingsRate:      rate,
	}
}

// Trend groups txs by month, oldest first.
func Trend(txs []core.Transaction) []core.TrendPoint {
	byMonth := map[string]*core.TrendPoint{}
	for _, tx := range txs {
		m := tx.Month()
		p, ok := byMonth[m]
		if !ok {
			p = &core.TrendPoint{Month: m, Income: decimal.Zero, Expenses: decimal.Zero}
			byMonth[m] = p
		}
		switch tx.Kind {
		case core.KindIncome:
			p.Income = p.Income.Add(tx.Amount)
		case core.KindExpense:
			p.Expenses = p.Expenses.Add(tx.Amount)
		}
	}

	out := make([]core.TrendPoint, 0, len(byMonth))
	for _, p := range byMonth {
		p.Net = p.Income.Sub(p.Expenses)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// SortedCategories returns the keys of a category map ordered by amount descending,
// then by name.
func SortedCategories(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := m[keys[i]].Cmp(m[keys[j]]); c != 0 {
			return c > 0
		}
		return keys[i] < keys[j]
	})
	return keys
}
