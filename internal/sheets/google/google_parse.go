package google

import (
	"fmt"
	"strings"

	"expensetracker/internal/codec"
	"expensetracker/internal/core"
)

// parseRows converts a values matrix (as returned by the Sheets API) into
// expenses. A first row whose first cell is "Description" is treated as the
// header. Blank rows are skipped; a row with fewer than four cells fails.
func parseRows(values [][]interface{}) ([]core.Expense, error) {
	items := []core.Expense{}
	for i, raw := range values {
		row := toStrings(raw)
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "Description") {
			continue
		}
		if isBlank(row) {
			continue
		}
		line := i + 1
		if len(row) < 4 {
			return nil, &codec.FormatError{
				Line:  line,
				Field: "fields",
				Text:  strings.Join(row, ","),
				Err:   fmt.Errorf("expected 4 cells, got %d", len(row)),
			}
		}
		amount, err := codec.ParseAmount(row[1])
		if err != nil {
			return nil, codec.AtLine(err, line)
		}
		date, err := codec.ParseDate(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, codec.AtLine(err, line)
		}
		items = append(items, core.Expense{
			Description: row[0],
			Amount:      amount,
			Category:    row[2],
			Date:        date,
		})
	}
	return items, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
