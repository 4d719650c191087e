// Package worker keeps the spreadsheet export in step with the ledger by
// reacting to ledger change events.
package worker

import (
	"context"
	"fmt"
	"slices"

	"homebook/internal/amqp"
	"homebook/internal/core"
	"homebook/internal/export"
	applog "homebook/internal/log"
	"homebook/internal/sheets"
)

// TransactionSource is the read side of the ledger the worker exports from.
type TransactionSource interface {
	ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
}

// SyncWorker rewrites the spreadsheet from the ledger after every change.
type SyncWorker struct {
	source TransactionSource
	sheet  sheets.TransactionSheet
	logger *applog.Logger
}

func NewSyncWorker(source TransactionSource, sheet sheets.TransactionSheet, logger *applog.Logger) *SyncWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &SyncWorker{
		source: source,
		sheet:  sheet,
		logger: logger.WithComponent(applog.ComponentSheets),
	}
}

// HandleLedgerEvent processes one change message. The sheet is a full mirror, so
// every event type is handled the same way. Redelivered or duplicate events leave
// an already matching sheet untouched.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		"message_id", msg.ID,
		"type", string(msg.Type),
		applog.FieldTransactionID, msg.TransactionID)

	if _, err := w.sync(ctx, false); err != nil {
		return fmt.Errorf("sync after %s: %w", msg.Type, err)
	}
	return nil
}

// StartupSync rewrites the sheet once so changes made while the worker was down
// are not lost.
func (w *SyncWorker) StartupSync(ctx context.Context) error {
	n, err := w.sync(ctx, true)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	w.logger.InfoContext(ctx, "Startup sync complete", applog.FieldCount, n)
	return nil
}

// sync mirrors the ledger to the sheet, skipping the write when the sheet already
// matches unless force is set. It returns how many transactions the ledger holds.
func (w *SyncWorker) sync(ctx context.Context, force bool) (int, error) {
	txs, err := w.source.ListTransactions(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	if !force {
		current, err := w.sheet.ReadTransactions(ctx)
		switch {
		case err != nil:
			// An unreadable sheet gets overwritten.
			w.logger.WarnContext(ctx, "Failed to read sheet, rewriting it", applog.FieldError, err)
		case sameRows(current, txs):
			w.logger.DebugContext(ctx, "Sheet already matches ledger", applog.FieldCount, len(txs))
			return len(txs), nil
		}
	}

	ref, err := w.sheet.ExportTransactions(ctx, txs)
	if err != nil {
		return 0, fmt.Errorf("export transactions: %w", err)
	}
	w.logger.DebugContext(ctx, "Ledger mirrored to sheet", "range", ref, applog.FieldCount, len(txs))
	return len(txs), nil
}

// sameRows compares transactions by their exported cells, which is all a sheet
// can hold.
func sameRows(a, b []core.Transaction) bool {
	return slices.EqualFunc(a, b, func(x, y core.Transaction) bool {
		return slices.Equal(export.MarshalTransaction(x), export.MarshalTransaction(y))
	})
}
