package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homebook/internal/core"
)

// LedgerEventMessage is the wire form of a ledger change notification.
// Consumers re-read the ledger for details; the message only says what changed.
type LedgerEventMessage struct {
	ID            string         `json:"id"`
	Type          core.EventType `json:"type"`
	TransactionID int64          `json:"transaction_id,omitempty"`
	Currency      core.Currency  `json:"currency,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// NewLedgerEventMessage stamps an event with a fresh message id.
func NewLedgerEventMessage(ev core.LedgerEvent) *LedgerEventMessage {
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &LedgerEventMessage{
		ID:            uuid.NewString(),
		Type:          ev.Type,
		TransactionID: ev.TransactionID,
		Currency:      ev.Currency,
		Timestamp:     ts,
	}
}

// Event converts the message back into a domain event.
func (m *LedgerEventMessage) Event() core.LedgerEvent {
	return core.LedgerEvent{
		Type:          m.Type,
		TransactionID: m.TransactionID,
		Currency:      m.Currency,
		OccurredAt:    m.Timestamp,
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a message and rejects unknown event types.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
