// Package ledger implements the finance ledger: transaction bookkeeping on top of a
// Repository plus balance, monthly and trend rollups recomputed on every query.
package ledger

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"homebook/internal/core"
	"homebook/internal/export"
	applog "homebook/internal/log"
)

// NewTransaction is the caller-supplied part of a transaction.
type NewTransaction struct {
	Date        string // YYYY-MM-DD
	Kind        core.Kind
	Category    string
	Amount      decimal.Decimal
	Currency    core.Currency // empty means the default currency
	Description string
}

// Engine orchestrates ledger operations across the repository and the optional
// event publisher. Writers are serialized by an internal mutex.
type Engine struct {
	mu        sync.Mutex
	repo      Repository
	publisher EventPublisher
	logger    *applog.Logger
	now       func() time.Time
}

// NewEngine builds an Engine. publisher and logger may be nil.
func NewEngine(repo Repository, publisher EventPublisher, logger *applog.Logger) *Engine {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Engine{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentLedger),
		now:       time.Now,
	}
}

// AddTransaction validates and appends a transaction, returning its id.
func (e *Engine) AddTransaction(ctx context.Context, in NewTransaction) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	currency := in.Currency
	if currency == "" {
		def, err := e.repo.DefaultCurrency(ctx)
		if err != nil {
			return 0, core.NewStorageError("read default currency", err)
		}
		currency = def
	}

	tx := core.Transaction{
		Date:        strings.TrimSpace(in.Date),
		Kind:        in.Kind,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Currency:    currency,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   e.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	stored, err := e.repo.InsertTransaction(ctx, tx)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to insert transaction", applog.NewFields().
			WithOperation(applog.OpCreate).
			WithError(err).
			ToSlice()...)
		return 0, core.NewStorageError("insert transaction", err)
	}

	e.logger.InfoContext(ctx, "Transaction added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithTransaction(stored.ID, stored.Date, stored.Kind.String(), stored.Category,
			stored.Amount.StringFixed(2), stored.Currency.String()).
		ToSlice()...)

	e.publish(ctx, core.LedgerEvent{Type: core.EventTransactionCreated, TransactionID: stored.ID})
	return stored.ID, nil
}

// DeleteTransaction removes a transaction permanently.
func (e *Engine) DeleteTransaction(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	deleted, err := e.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return core.NewStorageError("delete transaction", err)
	}
	if !deleted {
		return fmt.Errorf("%w: transaction %d", core.ErrNotFound, id)
	}

	e.logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldOperation, applog.OpDelete, applog.FieldTransactionID, id)
	e.publish(ctx, core.LedgerEvent{Type: core.EventTransactionDeleted, TransactionID: id})
	return nil
}

// GetTransaction returns the transaction with id, or ErrNotFound.
func (e *Engine) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	tx, ok, err := e.repo.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, core.NewStorageError("get transaction", err)
	}
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: transaction %d", core.ErrNotFound, id)
	}
	return tx, nil
}

// ListTransactions returns transactions newest first. limit <= 0 returns all.
func (e *Engine) ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	txs, err := e.repo.ListTransactions(ctx, TransactionFilter{Limit: limit})
	if err != nil {
		return nil, core.NewStorageError("list transactions", err)
	}
	return txs, nil
}

// ComputeBalance totals income and expenses, restricted to currency when set.
func (e *Engine) ComputeBalance(ctx context.Context, currency core.Currency) (core.Balance, error) {
	txs, err := e.repo.ListTransactions(ctx, TransactionFilter{Currency: currency})
	if err != nil {
		return core.Balance{}, core.NewStorageError("list transactions", err)
	}
	return Balance(txs, currency), nil
}

// ComputeMonthlyBreakdown rolls up the transactions dated in yearMonth (YYYY-MM).
func (e *Engine) ComputeMonthlyBreakdown(ctx context.Context, yearMonth string) (core.MonthlyBreakdown, error) {
	yearMonth = strings.TrimSpace(yearMonth)
	if err := core.ValidateMonth(yearMonth); err != nil {
		return core.MonthlyBreakdown{}, err
	}

	txs, err := e.repo.ListTransactions(ctx, TransactionFilter{Month: yearMonth})
	if err != nil {
		return core.MonthlyBreakdown{}, core.NewStorageError("list transactions", err)
	}
	return Breakdown(txs, yearMonth), nil
}

// MonthlyReport is ComputeMonthlyBreakdown plus net income and savings rate.
func (e *Engine) MonthlyReport(ctx context.Context, yearMonth string) (core.MonthlyReport, error) {
	b, err := e.ComputeMonthlyBreakdown(ctx, yearMonth)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	return Report(b), nil
}

// Trend returns per-month totals across the whole ledger, oldest month first.
func (e *Engine) Trend(ctx context.Context, currency core.Currency) ([]core.TrendPoint, error) {
	txs, err := e.repo.ListTransactions(ctx, TransactionFilter{Currency: currency})
	if err != nil {
		return nil, core.NewStorageError("list transactions", err)
	}
	return Trend(txs), nil
}

// ClearAll deletes every transaction, budget and savings goal.
func (e *Engine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.repo.ClearAll(ctx); err != nil {
		return core.NewStorageError("clear ledger", err)
	}

	e.logger.WarnContext(ctx, "Ledger cleared", applog.FieldOperation, applog.OpClear)
	e.publish(ctx, core.LedgerEvent{Type: core.EventLedgerCleared})
	return nil
}

// DefaultCurrency returns the process-wide display currency.
func (e *Engine) DefaultCurrency(ctx context.Context) (core.Currency, error) {
	c, err := e.repo.DefaultCurrency(ctx)
	if err != nil {
		return "", core.NewStorageError("read default currency", err)
	}
	return c, nil
}

// SetDefaultCurrency changes the display currency. Only supported currencies are
// accepted. Stored transactions keep their own currency.
func (e *Engine) SetDefaultCurrency(ctx context.Context, code string) error {
	c, err := core.ParseCurrency(code)
	if err != nil {
		return fmt.Errorf("%w: %q", err, code)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.repo.SetDefaultCurrency(ctx, c); err != nil {
		return core.NewStorageError("write default currency", err)
	}

	e.logger.InfoContext(ctx, "Default currency changed", applog.FieldCurrency, c.String())
	e.publish(ctx, core.LedgerEvent{Type: core.EventCurrencyChanged, Currency: c})
	return nil
}

// Export writes every transaction as CSV to w and returns the number of rows.
func (e *Engine) Export(ctx context.Context, w io.Writer) (int, error) {
	txs, err := e.ListTransactions(ctx, 0)
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(w, txs); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	e.logger.InfoContext(ctx, "Transactions exported",
		applog.FieldOperation, applog.OpExport, applog.FieldCount, len(txs))
	return len(txs), nil
}

// Close releases the repository.
func (e *Engine) Close() error {
	return e.repo.Close()
}

// publish notifies the publisher, if any. The mutation is already committed, so a
// failure is logged and otherwise ignored.
func (e *Engine) publish(ctx context.Context, ev core.LedgerEvent) {
	if e.publisher == nil {
		return
	}
	ev.OccurredAt = e.now().UTC()
	if err := e.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		e.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"event", string(ev.Type), applog.FieldTransactionID, ev.TransactionID, applog.FieldError, err)
	}
}
