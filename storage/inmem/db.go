// Package inmemdb is an in-process ledger store, used in development and tests.
package inmemdb

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/akademflow/backend/core/attendance"
)

type (
	DB struct {
		mutex  sync.RWMutex
		sheets map[string]*worksheet // spreadsheet ID + "/" + title
	}

	worksheet struct {
		db    *DB
		cells [][]string
	}
)

var _ attendance.Store = (*DB)(nil)

func Open() *DB {
	return &DB{sheets: make(map[string]*worksheet)}
}

func sheetKey(spreadsheetID, title string) string {
	return spreadsheetID + "/" + title
}

func (db *DB) Worksheet(ctx context.Context, spreadsheetID, title string) (attendance.Worksheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spreadsheetID == "" || strings.TrimSpace(title) == "" {
		return nil, errors.New("spreadsheet ID and worksheet title are required")
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	key := sheetKey(spreadsheetID, title)
	ws, ok := db.sheets[key]
	if !ok {
		ws = &worksheet{db: db}
		db.sheets[key] = ws
	}
	return ws, nil
}

// Seed replaces the content of a worksheet.
func (db *DB) Seed(spreadsheetID, title string, rows [][]string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.sheets[sheetKey(spreadsheetID, title)] = &worksheet{db: db, cells: copyRows(rows)}
}

// Snapshot returns the content of a worksheet (nil if it was never opened or seeded).
func (db *DB) Snapshot(spreadsheetID, title string) [][]string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if ws, ok := db.sheets[sheetKey(spreadsheetID, title)]; ok {
		return ws.rows()
	}
	return nil
}

// rows trims trailing blank cells the way spreadsheet APIs do.
func (ws *worksheet) rows() [][]string {
	rows := make([][]string, 0, len(ws.cells))
	for _, r := range ws.cells {
		end := len(r)
		for end > 0 && r[end-1] == "" {
			end--
		}
		row := make([]string, end)
		copy(row, r)
		rows = append(rows, row)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func (ws *worksheet) grow(row, cols int) {
	for len(ws.cells) <= row {
		ws.cells = append(ws.cells, nil)
	}
	if len(ws.cells[row]) < cols {
		ws.cells[row] = append(ws.cells[row], make([]string, cols-len(ws.cells[row]))...)
	}
}

func (ws *worksheet) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ws.db.mutex.RLock()
	defer ws.db.mutex.RUnlock()
	return ws.rows(), nil
}

func (ws *worksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if row < 0 {
		return errors.Errorf("invalid row %d", row)
	}
	ws.db.mutex.Lock()
	defer ws.db.mutex.Unlock()

	ws.grow(row, len(values))
	copy(ws.cells[row], values)
	return nil
}

func (ws *worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if row < 0 || col < 0 {
		return errors.Errorf("invalid cell (%d, %d)", row, col)
	}
	ws.db.mutex.Lock()
	defer ws.db.mutex.Unlock()

	ws.grow(row, col+1)
	ws.cells[row][col] = value
	return nil
}

func (ws *worksheet) AppendRow(ctx context.Context, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ws.db.mutex.Lock()
	defer ws.db.mutex.Unlock()

	ws.cells = append(ws.rows(), append([]string(nil), values...))
	return nil
}

func copyRows(rows [][]string) [][]string {
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return cp
}
