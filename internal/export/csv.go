// Package export serializes ledger transactions for spreadsheets.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"homebook/internal/core"
)

// Header is the first line of every export.
const Header = "Date,Type,Category,Amount,Currency,Description"

const (
	numFields   = 6
	colDate     = 0
	colType     = 1
	colCategory = 2
	colAmount   = 3
	colCurrency = 4
	colDesc     = 5
)

// FileName is the default export file name for day.
func FileName(day time.Time) string {
	return fmt.Sprintf("finance_export_%s.csv", day.Format("20060102"))
}

// Columns returns the header split into cells.
func Columns() []string {
	return strings.Split(Header, ",")
}

// MarshalTransaction converts a transaction to its export cells.
func MarshalTransaction(tx core.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date
	row[colType] = tx.Kind.String()
	row[colCategory] = tx.Category
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colCurrency] = tx.Currency.String()
	row[colDesc] = tx.Description
	return row
}

// Rows converts transactions to export cells, preserving order.
func Rows(txs []core.Transaction) [][]string {
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		rows[i] = MarshalTransaction(tx)
	}
	return rows
}

// WriteCSV writes the header and one line per transaction. The description column
// is always quoted; other cells are quoted only when they need it.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txs {
		row := MarshalTransaction(tx)
		cells := make([]string, numFields)
		for j, cell := range row[:colDesc] {
			cells[j] = quoteIfNeeded(cell)
		}
		cells[colDesc] = quote(row[colDesc])
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return bw.Flush()
}

// UnmarshalTransaction converts export cells to a transaction.
func UnmarshalTransaction(record []string) (core.Transaction, error) {
	if len(record) != numFields {
		return core.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	return core.Transaction{
		Date:        record[colDate],
		Kind:        core.Kind(record[colType]),
		Category:    record[colCategory],
		Amount:      amount,
		Currency:    core.Currency(record[colCurrency]),
		Description: record[colDesc],
	}, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") || strings.HasPrefix(s, " ") {
		return quote(s)
	}
	return s
}
