// Package sheetstore keeps attendance ledgers in Google Sheets: one spreadsheet per stage, one worksheet per field.
package sheetstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/attendance"
)

const (
	valueInputOption  = "RAW"
	valueRenderOption = "FORMATTED_VALUE"
)

type Store struct {
	srv *sheets.Service
}

var _ attendance.Store = (*Store)(nil)

// Open connects to the Sheets API with the service account credentials file of `conf`.
func Open(ctx context.Context, conf *core.Config, opts ...option.ClientOption) (*Store, error) {
	if conf.Ledger.CredentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(conf.Path(conf.Ledger.CredentialsFile))}, opts...)
	}
	return New(ctx, append(opts, option.WithScopes(sheets.SpreadsheetsScope))...)
}

func New(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets service")
	}
	return &Store{srv: srv}, nil
}

// Worksheet opens the worksheet titled `title`, adding it to the spreadsheet when absent.
func (s *Store) Worksheet(ctx context.Context, spreadsheetID, title string) (attendance.Worksheet, error) {
	ss, err := s.srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "opening spreadsheet %s", spreadsheetID)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return s.worksheet(spreadsheetID, title), nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
		}},
	}
	if _, err = s.srv.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return nil, errors.Wrapf(err, "adding worksheet %q", title)
	}
	return s.worksheet(spreadsheetID, title), nil
}

func (s *Store) worksheet(spreadsheetID, title string) *worksheet {
	return &worksheet{values: s.srv.Spreadsheets.Values, spreadsheetID: spreadsheetID, title: title}
}

type worksheet struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	title         string
}

func (ws *worksheet) Rows(ctx context.Context) ([][]string, error) {
	vr, err := ws.values.Get(ws.spreadsheetID, quoteTitle(ws.title)).
		ValueRenderOption(valueRenderOption).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "reading worksheet %q", ws.title)
	}
	rows := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows, nil
}

func (ws *worksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	return ws.update(ctx, A1(ws.title, row, 0), values)
}

func (ws *worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	return ws.update(ctx, A1(ws.title, row, col), []string{value})
}

func (ws *worksheet) update(ctx context.Context, rng string, values []string) error {
	_, err := ws.values.Update(ws.spreadsheetID, rng, valueRange(values)).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return errors.Wrapf(err, "updating %s", rng)
}

func (ws *worksheet) AppendRow(ctx context.Context, values []string) error {
	rng := A1(ws.title, 0, 0)
	_, err := ws.values.Append(ws.spreadsheetID, rng, valueRange(values)).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return errors.Wrapf(err, "appending to %q", ws.title)
}

func valueRange(values []string) *sheets.ValueRange {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &sheets.ValueRange{MajorDimension: "ROWS", Values: [][]interface{}{row}}
}

// A1 returns the A1 notation of the 0-based cell (row, col) of worksheet `title`.
func A1(title string, row, col int) string {
	return quoteTitle(title) + "!" + ColumnName(col) + strconv.Itoa(row+1)
}

// ColumnName returns the letters of the 0-based column `col` (0 -> A, 26 -> AA).
func ColumnName(col int) string {
	var name []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		name = append([]byte{byte('A' + (n-1)%26)}, name...)
	}
	return string(name)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
