package core

import "github.com/shopspring/decimal"

// Balance is the income/expense position over a set of transactions.
type Balance struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
}

// MonthlyBreakdown aggregates one year-month. Category maps only hold categories
// that have at least one transaction.
type MonthlyBreakdown struct {
	Month             string // YYYY-MM
	IncomeTotal       decimal.Decimal
	ExpenseTotal      decimal.Decimal
	IncomeByCategory  map[string]decimal.Decimal
	ExpenseByCategory map[string]decimal.Decimal
}

// Net is income minus expenses for the month.
func (b MonthlyBreakdown) Net() decimal.Decimal {
	return b.IncomeTotal.Sub(b.ExpenseTotal)
}

// MonthlyReport is a breakdown plus the derived figures shown on the monthly report.
type MonthlyReport struct {
	MonthlyBreakdown
	NetIncome decimal.Decimal
	// SavingsRate is the percentage of income kept; zero when there is no income.
	SavingsRate decimal.Decimal
}

// TrendPoint is one month of the multi-month trend series.
type TrendPoint struct {
	Month    string // YYYY-MM
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}
