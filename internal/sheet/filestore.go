package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the tracker in a local CSV file so the handler can run
// without Google credentials. Same contract as the Sheets backend; row 1 of
// the file is the header.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Header(ctx context.Context) ([]string, error) {
	rows, err := f.readAll()
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (f *FileStore) Column(ctx context.Context, letter string) ([]string, error) {
	rows, err := f.readAll()
	if err != nil {
		return nil, err
	}
	idx := columnIndex(letter)
	var out []string
	for _, row := range rows[min(1, len(rows)):] {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

func (f *FileStore) Row(ctx context.Context, n int64, lastLetter string) ([]string, error) {
	rows, err := f.readAll()
	if err != nil {
		return nil, err
	}
	if n < 1 || int(n) > len(rows) {
		return nil, nil
	}
	return rows[n-1], nil
}

func (f *FileStore) UpdateRow(ctx context.Context, n int64, values []string) error {
	rows, err := f.readAll()
	if err != nil {
		return err
	}
	for int64(len(rows)) < n {
		rows = append(rows, nil)
	}
	rows[n-1] = values
	return f.writeAll(rows)
}

func (f *FileStore) Append(ctx context.Context, values []string) error {
	rows, err := f.readAll()
	if err != nil {
		return err
	}
	rows = append(rows, values)
	return f.writeAll(rows)
}

func (f *FileStore) InsertBelowHeader(ctx context.Context) error {
	rows, err := f.readAll()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("cannot insert below header: file %s has no header row", f.path)
	}
	rows = append(rows[:1], append([][]string{nil}, rows[1:]...)...)
	return f.writeAll(rows)
}

func (f *FileStore) readAll() ([][]string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (f *FileStore) writeAll(rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	file, err := os.Create(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for _, row := range rows {
		if row == nil {
			row = []string{""}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
