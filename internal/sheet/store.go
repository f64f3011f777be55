// Package sheet implements the date-keyed merge-upsert against a spreadsheet
// tab. The engine only needs a small range-read/range-write contract, so the
// Google Sheets client and a local CSV file both plug in behind RowStore.
package sheet

import "context"

// RowStore is the slice of a spreadsheet tab the upsert engine needs. Row
// numbers are 1-based sheet rows; row 1 is the header. Columns are addressed
// by A1-style letters.
type RowStore interface {
	// Header returns row 1, the authoritative column-name list.
	Header(ctx context.Context) ([]string, error)
	// Column returns the body cells of one column, top to bottom, starting
	// at row 2. Blank cells come back as empty strings.
	Column(ctx context.Context, letter string) ([]string, error)
	// Row returns row n up to lastLetter. Missing trailing cells may be
	// absent; callers pad to header width.
	Row(ctx context.Context, n int64, lastLetter string) ([]string, error)
	// UpdateRow overwrites row n starting at column A.
	UpdateRow(ctx context.Context, n int64, values []string) error
	// Append adds a row after the existing data range.
	Append(ctx context.Context, values []string) error
	// InsertBelowHeader inserts a blank row at row 2.
	InsertBelowHeader(ctx context.Context) error
}

// ColumnLetter converts a zero-based column index to its A1 letter form
// (0→A, 25→Z, 26→AA).
func ColumnLetter(idx int) string {
	letters := ""
	n := idx + 1
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}

// columnIndex is the inverse of ColumnLetter, used by the file backend.
func columnIndex(letter string) int {
	n := 0
	for _, r := range letter {
		n = n*26 + int(r-'A') + 1
	}
	return n - 1
}
