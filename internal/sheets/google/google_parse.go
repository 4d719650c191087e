package google

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"homebook/internal/core"
	"homebook/internal/export"
)

// parseTransactions converts a values matrix (as returned by the Sheets API) into
// transactions. The first row must hold the export headers, in any order.
// Blank rows are skipped.
func parseTransactions(values [][]any) ([]core.Transaction, error) {
	if len(values) == 0 {
		return nil, nil
	}

	headers := toStrings(values[0])
	columns := export.Columns()
	idx := make([]int, len(columns))
	var missing []string
	for i, name := range columns {
		idx[i] = indexOf(headers, name)
		if idx[i] == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected sheet header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	var out []core.Transaction
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		record := make([]string, len(columns))
		for j, col := range idx {
			record[j] = safeGet(row, col)
		}
		// Sheets may hand numbers back with a decimal comma.
		record[3] = normalizeAmount(record[3])
		tx, err := export.UnmarshalTransaction(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, tx)
	}
	return out, nil
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	if _, err := decimal.NewFromString(s); err == nil {
		return s
	}
	if d, err := core.ParseAmount(s); err == nil {
		return d.String()
	}
	return strings.ReplaceAll(s, ",", ".")
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
