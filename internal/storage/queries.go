package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the hand-written statements of the ledger schema. Every value is
// passed as a bound argument.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          int64
	Date        string
	Type        string
	Category    string
	Amount      decimal.Decimal
	Currency    string
	Description string
	CreatedAt   time.Time
}

type CreateTransactionParams struct {
	Date        string
	Type        string
	Category    string
	Amount      decimal.Decimal
	Currency    string
	Description string
	CreatedAt   time.Time
}

const transactionColumns = `id, date, type, category, amount, currency, description, created_at`

const createTransaction = `
INSERT INTO transactions (date, type, category, amount, currency, description, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Date,
		arg.Type,
		arg.Category,
		arg.Amount.String(),
		arg.Currency,
		arg.Description,
		arg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return scanTransaction(row)
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

// GetTransaction returns sql.ErrNoRows when id does not exist.
func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

// DeleteTransaction returns the number of rows removed.
func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ListTransactionsParams struct {
	Currency string
	Type     string
	Month    string // YYYY-MM
	Limit    int
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions`

// buildListTransactions assembles the filtered query and its arguments.
func buildListTransactions(arg ListTransactionsParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if arg.Currency != "" {
		conds = append(conds, "currency = ?")
		args = append(args, arg.Currency)
	}
	if arg.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, arg.Type)
	}
	if arg.Month != "" {
		conds = append(conds, "date LIKE ?")
		args = append(args, arg.Month+"%")
	}

	var sb strings.Builder
	sb.WriteString(listTransactions)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY date DESC, id DESC")
	if arg.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, arg.Limit)
	}
	return sb.String(), args
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	query, args := buildListTransactions(arg)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const (
	deleteAllTransactions = `DELETE FROM transactions`
	deleteAllBudgets      = `DELETE FROM budgets`
	deleteAllSavingsGoals = `DELETE FROM savings_goals`
)

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTransactions)
	return err
}

func (q *Queries) DeleteAllBudgets(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllBudgets)
	return err
}

func (q *Queries) DeleteAllSavingsGoals(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSavingsGoals)
	return err
}

const getDefaultCurrency = `SELECT default_currency FROM currency_settings WHERE id = 1`

// GetDefaultCurrency returns sql.ErrNoRows when the settings row is missing.
func (q *Queries) GetDefaultCurrency(ctx context.Context) (string, error) {
	var c string
	err := q.db.QueryRowContext(ctx, getDefaultCurrency).Scan(&c)
	return c, err
}

const upsertDefaultCurrency = `
INSERT INTO currency_settings (id, default_currency) VALUES (1, ?)
ON CONFLICT (id) DO UPDATE SET default_currency = excluded.default_currency`

func (q *Queries) UpsertDefaultCurrency(ctx context.Context, currency string) error {
	_, err := q.db.ExecContext(ctx, upsertDefaultCurrency, currency)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		i         Transaction
		amount    string
		createdAt string
	)
	if err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Type,
		&i.Category,
		&amount,
		&i.Currency,
		&i.Description,
		&createdAt,
	); err != nil {
		return Transaction{}, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse amount %q of transaction %d: %w", amount, i.ID, err)
	}
	i.Amount = d

	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse created_at of transaction %d: %w", i.ID, err)
	}
	i.CreatedAt = ts
	return i, nil
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp " + s)
}
