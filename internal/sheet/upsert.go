package sheet

import (
	"context"
	"errors"
	"fmt"

	"healthlog-webhook/internal/fields"
)

var (
	// ErrEmptyHeader means row 1 of the tab has no column names.
	ErrEmptyHeader = errors.New("header row is empty; put column names in row 1")
	// ErrNoDateColumn means the header row lacks the Date column.
	ErrNoDateColumn = errors.New(`header row has no "Date" column`)
)

// Result describes what the upsert did. Row is the 1-based sheet row for
// update and prepend, or the string "new" for append.
type Result struct {
	Action  string         `json:"action"`
	Row     any            `json:"row"`
	Date    string         `json:"date"`
	Headers []string       `json:"headers"`
	Changed map[string]any `json:"changed"`
	Written []string       `json:"written"`
}

// Upsert writes one log entry keyed by its Date value. An existing row for
// the date is merged in place: only the supplied columns are overwritten and
// everything else keeps its prior value. Otherwise a new row is appended, or
// inserted right below the header when forceTopToday is set and the date is
// today.
//
// The update path is a read-modify-write with no revision check (the Values
// API has no conditional write), so concurrent invocations for the same date
// merge at-least-once, not exactly-once.
func Upsert(ctx context.Context, store RowStore, values map[string]any, forceTopToday bool, today string) (*Result, error) {
	headers, err := store.Header(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	if len(headers) == 0 {
		return nil, ErrEmptyHeader
	}

	date := fields.Stringify(values[fields.DateColumn])
	if date == "" {
		date = today
	}
	values[fields.DateColumn] = date

	dateIdx := -1
	for i, h := range headers {
		if h == fields.DateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, ErrNoDateColumn
	}

	cells, err := store.Column(ctx, ColumnLetter(dateIdx))
	if err != nil {
		return nil, fmt.Errorf("reading date column: %w", err)
	}
	var target int64
	for i, cell := range cells {
		if cell == date {
			target = int64(i + 2) // cells start at sheet row 2
			break
		}
	}

	if target > 0 {
		existing, err := store.Row(ctx, target, ColumnLetter(len(headers)-1))
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", target, err)
		}
		written := make([]string, len(headers))
		copy(written, existing)
		overlay(written, headers, values)
		if err := store.UpdateRow(ctx, target, written); err != nil {
			return nil, fmt.Errorf("updating row %d: %w", target, err)
		}
		return result("update", target, date, headers, values, written), nil
	}

	written := make([]string, len(headers))
	overlay(written, headers, values)

	if forceTopToday && date == today {
		if err := store.InsertBelowHeader(ctx); err != nil {
			return nil, fmt.Errorf("inserting row below header: %w", err)
		}
		if err := store.UpdateRow(ctx, 2, written); err != nil {
			return nil, fmt.Errorf("writing prepended row: %w", err)
		}
		return result("prepend", int64(2), date, headers, values, written), nil
	}

	if err := store.Append(ctx, written); err != nil {
		return nil, fmt.Errorf("appending row: %w", err)
	}
	return result("append", "new", date, headers, values, written), nil
}

// overlay writes only the supplied columns into row, formatting each value
// for its column.
func overlay(row []string, headers []string, values map[string]any) {
	for i, h := range headers {
		if v, ok := values[h]; ok {
			row[i] = fields.Format(v, h)
		}
	}
}

func result(action string, row any, date string, headers []string, values map[string]any, written []string) *Result {
	changed := make(map[string]any)
	for _, h := range headers {
		if v, ok := values[h]; ok {
			changed[h] = v
		}
	}
	return &Result{
		Action:  action,
		Row:     row,
		Date:    date,
		Headers: headers,
		Changed: changed,
		Written: written,
	}
}
