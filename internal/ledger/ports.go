package ledger

import (
	"context"

	"homebook/internal/core"
)

// Ports for outbound adapters.
type (
	// Repository persists transactions and the default currency setting. Every method
	// is a single atomic unit against the store.
	Repository interface {
		// InsertTransaction stores tx and returns it with ID and CreatedAt assigned.
		// IDs increase monotonically and are never reused.
		InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		// GetTransaction reports whether a row with id exists and returns it.
		GetTransaction(ctx context.Context, id int64) (core.Transaction, bool, error)
		// DeleteTransaction reports whether a row with id existed.
		DeleteTransaction(ctx context.Context, id int64) (bool, error)
		// ListTransactions returns matching rows ordered by date descending, then by
		// insertion order descending.
		ListTransactions(ctx context.Context, filter TransactionFilter) ([]core.Transaction, error)
		// ClearAll removes every transaction, budget and savings goal.
		ClearAll(ctx context.Context) error
		DefaultCurrency(ctx context.Context) (core.Currency, error)
		SetDefaultCurrency(ctx context.Context, c core.Currency) error
		Close() error
	}

	// EventPublisher is notified after each committed mutation.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error
	}
)

// TransactionFilter narrows ListTransactions. Zero values mean "no constraint".
type TransactionFilter struct {
	Currency core.Currency
	Kind     core.Kind
	Month    string // YYYY-MM date prefix
	Limit    int
}

// Matches applies the filter to a single transaction, ignoring Limit.
func (f TransactionFilter) Matches(tx core.Transaction) bool {
	if f.Currency != "" && tx.Currency != f.Currency {
		return false
	}
	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}
	if f.Month != "" && tx.Month() != f.Month {
		return false
	}
	return true
}
