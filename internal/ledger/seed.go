package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"homebook/internal/core"
	applog "homebook/internal/log"
)

// SampleTransactions is the starter data offered on a fresh ledger.
var SampleTransactions = []NewTransaction{
	{Date: "2024-12-01", Kind: core.KindIncome, Category: "Salary", Amount: decimal.NewFromInt(3000), Currency: core.INR, Description: "Monthly salary"},
	{Date: "2024-12-02", Kind: core.KindExpense, Category: "Food", Amount: decimal.NewFromInt(50), Currency: core.USD, Description: "Grocery shopping"},
	{Date: "2024-12-03", Kind: core.KindExpense, Category: "Transportation", Amount: decimal.NewFromInt(30), Currency: core.EUR, Description: "Gas"},
	{Date: "2024-12-04", Kind: core.KindExpense, Category: "Entertainment", Amount: decimal.NewFromInt(25), Currency: core.GBP, Description: "Movie tickets"},
	{Date: "2024-12-05", Kind: core.KindIncome, Category: "Freelance", Amount: decimal.NewFromInt(500), Currency: core.INR, Description: "Web development project"},
	{Date: "2025-01-01", Kind: core.KindIncome, Category: "Salary", Amount: decimal.NewFromInt(3000), Currency: core.INR, Description: "Monthly salary"},
	{Date: "2025-01-02", Kind: core.KindExpense, Category: "Housing", Amount: decimal.NewFromInt(800), Currency: core.INR, Description: "Rent payment"},
	{Date: "2025-01-03", Kind: core.KindExpense, Category: "Utilities", Amount: decimal.NewFromInt(150), Currency: core.USD, Description: "Electric and water"},
	{Date: "2025-01-04", Kind: core.KindExpense, Category: "Food", Amount: decimal.NewFromInt(75), Currency: core.INR, Description: "Grocery shopping"},
}

// SeedSamples inserts SampleTransactions when the ledger is empty and returns how
// many were added.
func (e *Engine) SeedSamples(ctx context.Context) (int, error) {
	existing, err := e.ListTransactions(ctx, 1)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, in := range SampleTransactions {
		if _, err := e.AddTransaction(ctx, in); err != nil {
			return i, err
		}
	}

	e.logger.InfoContext(ctx, "Sample data added",
		applog.FieldOperation, applog.OpSeed, applog.FieldCount, len(SampleTransactions))
	return len(SampleTransactions), nil
}
