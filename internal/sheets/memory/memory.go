// Package memory is an in-process spreadsheet used when no Google credentials
// are configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"homebook/internal/core"
	"homebook/internal/export"
	ports "homebook/internal/sheets"
)

var _ ports.TransactionSheet = (*Sheet)(nil)

type Sheet struct {
	mu     sync.Mutex
	name   string
	values [][]string
	writes int
}

func New(name string) *Sheet {
	if name == "" {
		name = ports.DefaultSheetName
	}
	return &Sheet{name: name}
}

// ExportTransactions clears the sheet and writes the header plus one row per
// transaction.
func (s *Sheet) ExportTransactions(_ context.Context, txs []core.Transaction) (string, error) {
	values := append([][]string{export.Columns()}, export.Rows(txs)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
	s.writes++
	return fmt.Sprintf("%s!A1:F%d", s.name, len(values)), nil
}

// ReadTransactions parses the current contents, skipping the header.
func (s *Sheet) ReadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for i, row := range s.values {
		if i == 0 {
			continue
		}
		tx, err := export.UnmarshalTransaction(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, tx)
	}
	return out, nil
}

// Values returns a copy of the raw cells.
func (s *Sheet) Values() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.values))
	for i, row := range s.values {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Writes counts completed exports.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
