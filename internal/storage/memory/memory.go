// Package memory is a process-local ledger repository used for tests and for the
// "memory" backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"homebook/internal/core"
	"homebook/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	items    []core.Transaction
	currency core.Currency
}

var _ ledger.Repository = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1, currency: core.DefaultCurrency}
}

// InsertTransaction stores tx under the next id.
func (s *Store) InsertTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	s.items = append(s.items, tx)
	return tx, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.items {
		if tx.ID == id {
			return tx, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListTransactions returns copies ordered by date, then id, both descending.
func (s *Store) ListTransactions(_ context.Context, f ledger.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ClearAll drops every transaction but keeps the currency setting. Memory ledgers
// hold no budgets or savings goals. Ids keep increasing.
func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

func (s *Store) DefaultCurrency(_ context.Context) (core.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency, nil
}

func (s *Store) SetDefaultCurrency(_ context.Context, c core.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = c
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Len reports how many transactions are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
