// Package sheets defines the spreadsheet export target for the ledger.
package sheets

import (
	"context"

	"homebook/internal/core"
)

// DefaultSheetName is used when no sheet name is configured.
const DefaultSheetName = "Transactions"

// Ports for outbound adapters.
type (
	// TransactionExporter replaces the sheet contents with the export header and
	// one row per transaction, in the given order.
	TransactionExporter interface {
		ExportTransactions(ctx context.Context, txs []core.Transaction) (rangeRef string, err error)
	}

	// TransactionReader reads a previous export back.
	TransactionReader interface {
		ReadTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionSheet is a sheet that can be written and read back.
	TransactionSheet interface {
		TransactionExporter
		TransactionReader
	}
)
