package backend

import (
	"context"

	"homebook/internal/ledger"
	"homebook/internal/sheets"
)

// CleanupFunc releases the resources behind a backend.
type CleanupFunc func() error

// BackendResult is a ready ledger engine plus the cleanup for everything it holds.
type BackendResult struct {
	Engine  *ledger.Engine
	Cleanup CleanupFunc
}

// Factory creates ledger backends and export targets from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateSheetsExporter(ctx context.Context, config Config) (sheets.TransactionSheet, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Optional Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
