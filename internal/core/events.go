package core

import "time"

// EventType names a ledger mutation.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionDeleted EventType = "transaction.deleted"
	EventLedgerCleared      EventType = "ledger.cleared"
	EventCurrencyChanged    EventType = "currency.changed"
)

// LedgerEvent describes a mutation that has already been committed.
type LedgerEvent struct {
	Type          EventType
	TransactionID int64    // zero for ledger-wide events
	Currency      Currency // set for currency changes
	OccurredAt    time.Time
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTransactionCreated, EventTransactionDeleted, EventLedgerCleared, EventCurrencyChanged:
		return true
	}
	return false
}
