// Package export turns in-memory records into downloadable files.
//
// The CSV encoding here is deliberately narrower than encoding/csv: only
// string values are written, and a value is quoted only when it contains a
// comma or a double quote. Anything else (numbers, bools, nil, time values)
// becomes an empty cell. Callers that want those values in the file format
// them to strings before building the Record.
package export

import (
	"errors"
	"strings"
)

// ErrNoData is returned by Serialize for an empty or nil record slice.
var ErrNoData = errors.New("export: no data to export")

// Field is one key/value cell of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of fields. The first record of an export fixes
// the column order.
type Record []Field

// Keys returns the record's keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Serialize renders records as CSV text. The header row is the first
// record's keys; every row is looked up by those keys, so keys that only
// appear in later records are dropped and missing keys give empty cells.
// Lines are separated by "\n" with no trailing newline.
func Serialize(records []Record) (string, error) {
	if len(records) == 0 {
		return "", ErrNoData
	}

	headers := records[0].Keys()

	var sb strings.Builder
	writeRow(&sb, len(headers), func(i int) string { return escapeField(headers[i]) })

	for _, rec := range records {
		sb.WriteByte('\n')
		writeRow(&sb, len(headers), func(i int) string {
			v, _ := rec.Get(headers[i])
			return formatValue(v)
		})
	}

	return sb.String(), nil
}

func writeRow(sb *strings.Builder, n int, cell func(int) string) {
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(cell(i))
	}
}

// formatValue writes strings (escaped) and drops everything else.
func formatValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return escapeField(s)
}

// escapeField quotes s when it contains a comma or a double quote.
func escapeField(s string) string {
	if strings.ContainsAny(s, `,"`) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
