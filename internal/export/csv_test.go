package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		{ID: 2, Date: "2024-12-02", Kind: core.KindExpense, Category: "Food", Amount: decimal.NewFromInt(50), Currency: core.INR, Description: "Grocery shopping"},
		{ID: 1, Date: "2024-12-01", Kind: core.KindIncome, Category: "Salary", Amount: decimal.RequireFromString("3000.5"), Currency: core.INR},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	want := "Date,Type,Category,Amount,Currency,Description\n" +
		"2024-12-02,expense,Food,50.00,INR,\"Grocery shopping\"\n" +
		"2024-12-01,income,Salary,3000.50,INR,\"\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestWriteCSV_EscapesSpecialCharacters(t *testing.T) {
	txs := []core.Transaction{{
		Date: "2025-01-01", Kind: core.KindExpense, Category: "Food, drinks",
		Amount: decimal.NewFromInt(1), Currency: core.USD, Description: `the "good" stuff, really`,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2025-01-01,expense,"Food, drinks",1.00,USD,"the ""good"" stuff, really"`, lines[1])

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Food, drinks", records[1][2])
	assert.Equal(t, `the "good" stuff, really`, records[1][5])
}

func TestUnmarshalTransaction(t *testing.T) {
	tx, err := UnmarshalTransaction(MarshalTransaction(sample()[1]))
	require.NoError(t, err)
	assert.Equal(t, core.KindIncome, tx.Kind)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("3000.50")))
	assert.Zero(t, tx.ID)

	_, err = UnmarshalTransaction([]string{"2025-01-01", "income", "Salary", "abc", "INR", ""})
	assert.ErrorContains(t, err, `parsing amount "abc"`)

	_, err = UnmarshalTransaction([]string{"2025-01-01", "income"})
	assert.ErrorContains(t, err, "expected 6 fields, got 2")
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "finance_export_20250307.csv", FileName(day))
	assert.Equal(t, []string{"Date", "Type", "Category", "Amount", "Currency", "Description"}, Columns())
}
