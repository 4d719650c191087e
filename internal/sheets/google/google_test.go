package google

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "", "", nil)
	require.Error(t, err)
	assert.Equal(t, "missing GOOGLE_SPREADSHEET_ID", err.Error())
}

func TestNew_MissingCredentials(t *testing.T) {
	clearCredentials(t)

	_, err := New(context.Background(), "sheet-id", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", filepath.Join(t.TempDir(), "missing.json"))

	_, err := New(context.Background(), "sheet-id", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read service account file")
}

func TestNew_InvalidCredentialsJSON(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "not-json")

	_, err := New(context.Background(), "sheet-id", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheets service")
}

func TestClient_UninitializedService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Transactions"}

	_, err := c.ExportTransactions(context.Background(), []core.Transaction{
		{Date: "2025-01-01", Kind: core.KindIncome, Category: "Salary", Amount: decimal.NewFromInt(1), Currency: core.INR},
	})
	assert.EqualError(t, err, "sheets service not initialized")

	_, err = c.ReadTransactions(context.Background())
	assert.EqualError(t, err, "sheets service not initialized")
}

func TestToValues(t *testing.T) {
	got := toValues([][]string{{"Date", "Type"}, {"2025-01-01", "income"}})
	assert.Equal(t, [][]any{{"Date", "Type"}, {"2025-01-01", "income"}}, got)
	assert.Empty(t, toValues(nil))
}
