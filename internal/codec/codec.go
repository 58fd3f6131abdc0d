// Package codec maps one expense to one line of pipe-delimited text and back.
//
// Line format: description|amount|category|YYYY-MM-DD
//
// A '|' or '\' inside description or category is escaped with a backslash.
// Lines written by older versions, which never escaped anything, decode
// unchanged as long as they contain no backslash.
package codec

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

const (
	Delimiter = '|'
	escape    = '\\'
	numFields = 4
)

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// Encode renders e as a single line without a trailing newline.
func Encode(e core.Expense) string {
	var b strings.Builder
	b.WriteString(escaper.Replace(e.Description))
	b.WriteByte(Delimiter)
	b.WriteString(e.Amount.String())
	b.WriteByte(Delimiter)
	b.WriteString(escaper.Replace(e.Category))
	b.WriteByte(Delimiter)
	b.WriteString(e.Date.String())
	return b.String()
}

// Decode parses a line produced by Encode.
func Decode(line string) (core.Expense, error) {
	line = strings.TrimSuffix(line, "\r")
	parts := split(line)
	if len(parts) != numFields {
		return core.Expense{}, &FormatError{
			Field: "fields",
			Text:  line,
			Err:   fmt.Errorf("expected %d fields, got %d", numFields, len(parts)),
		}
	}
	amount, err := ParseAmount(parts[1])
	if err != nil {
		return core.Expense{}, err
	}
	date, err := ParseDate(parts[3])
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Description: parts[0],
		Amount:      amount,
		Category:    parts[2],
		Date:        date,
	}, nil
}

// ParseAmount parses a stored amount. Unlike core.ParseAmount it accepts any
// sign, since stored records are never validated.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &FormatError{Field: "amount", Text: s, Err: err}
	}
	return d, nil
}

// ParseDate parses a stored YYYY-MM-DD date.
func ParseDate(s string) (core.Date, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, &FormatError{Field: "date", Text: s, Err: err}
	}
	return d, nil
}

// split cuts line on unescaped delimiters and resolves escapes. A backslash
// not followed by '|' or '\' is kept as is.
func split(line string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == escape && i+1 < len(line) && (line[i+1] == Delimiter || line[i+1] == escape):
			cur.WriteByte(line[i+1])
			i++
		case c == Delimiter:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String())
}
