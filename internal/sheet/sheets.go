package sheet

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// ErrTabNotFound means the configured tab name does not exist in the
// spreadsheet.
var ErrTabNotFound = errors.New("sheet tab not found in spreadsheet")

// SheetsStore is the Google Sheets backend of RowStore.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
}

func NewSheetsStore(svc *sheets.Service, spreadsheetID, sheetName string) *SheetsStore {
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		sheetID:       -1,
	}
}

func (s *SheetsStore) Header(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(
		s.spreadsheetID,
		fmt.Sprintf("%s!1:1", s.sheetName),
	).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return stringCells(resp.Values[0]), nil
}

func (s *SheetsStore) Column(ctx context.Context, letter string) ([]string, error) {
	// Open-ended range; the Values API returns the full column, so the
	// date scan is exhaustive without pagination.
	resp, err := s.svc.Spreadsheets.Values.Get(
		s.spreadsheetID,
		fmt.Sprintf("%s!%s2:%s", s.sheetName, letter, letter),
	).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) > 0 {
			out = append(out, fmt.Sprint(row[0]))
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

func (s *SheetsStore) Row(ctx context.Context, n int64, lastLetter string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(
		s.spreadsheetID,
		fmt.Sprintf("%s!A%d:%s%d", s.sheetName, n, lastLetter, n),
	).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return stringCells(resp.Values[0]), nil
}

func (s *SheetsStore) UpdateRow(ctx context.Context, n int64, values []string) error {
	_, err := s.svc.Spreadsheets.Values.Update(
		s.spreadsheetID,
		fmt.Sprintf("%s!A%d", s.sheetName, n),
		&sheets.ValueRange{Values: [][]interface{}{anyCells(values)}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return err
}

func (s *SheetsStore) Append(ctx context.Context, values []string) error {
	_, err := s.svc.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName,
		&sheets.ValueRange{Values: [][]interface{}{anyCells(values)}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (s *SheetsStore) InsertBelowHeader(ctx context.Context) error {
	tabID, err := s.tabID(ctx)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				InsertDimension: &sheets.InsertDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    tabID,
						Dimension:  "ROWS",
						StartIndex: 1,
						EndIndex:   2,
					},
				},
			},
		},
	}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	return err
}

// tabID resolves the numeric id of the configured tab, needed only by the
// insert-dimension request. Resolved lazily and cached.
func (s *SheetsStore) tabID(ctx context.Context) (int64, error) {
	if s.sheetID >= 0 {
		return s.sheetID, nil
	}
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets(properties(sheetId,title))").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("reading spreadsheet metadata: %w", err)
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			s.sheetID = sh.Properties.SheetId
			return s.sheetID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrTabNotFound, s.sheetName)
}

func stringCells(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}

func anyCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
