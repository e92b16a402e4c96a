package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/txstore/core"
)

const cutset = " \t\r\n\""

// Trim strips spaces, tabs, line breaks and double quotes from both ends.
func Trim(s string) string {
	return strings.Trim(s, cutset)
}

// SplitLine splits a line on commas and trims every column.
func SplitLine(line string) []string {
	columns := strings.Split(line, ",")
	for i := range columns {
		columns[i] = Trim(columns[i])
	}
	return columns
}

// ParseLine parses one data line into a record. Columns past the last
// record field are ignored.
func ParseLine(line string) (core.Record, error) {
	columns := SplitLine(line)
	if len(columns) < core.FieldCount {
		return core.Record{}, fmt.Errorf("%w: got %d of %d columns", ErrMissingFields, len(columns), core.FieldCount)
	}

	raw := columns[core.FieldAmount]
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return core.Record{}, fmt.Errorf("%w %q: %w", ErrInvalidAmount, raw, err)
	}

	record := core.RecordFromColumns(columns, amount)
	if err := core.ValidateRecord(&record); err != nil {
		return core.Record{}, err
	}
	return record, nil
}
