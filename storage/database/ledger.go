package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core/attendance"
)

// LedgerStore keeps worksheets as sparse (row, col) -> value cells.
type LedgerStore struct {
	db *sqlx.DB
}

var _ attendance.Store = (*LedgerStore)(nil)

func NewLedgerStore(db *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Worksheet(ctx context.Context, spreadsheetID, title string) (attendance.Worksheet, error) {
	var id int
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO worksheet (spreadsheet_id, title) VALUES ($1, $2)
		ON CONFLICT (spreadsheet_id, title) DO UPDATE SET title = EXCLUDED.title
		RETURNING id`,
		spreadsheetID, title,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "opening worksheet %q", title)
	}
	return &worksheet{db: s.db, id: id}, nil
}

type (
	worksheet struct {
		db *sqlx.DB
		id int
	}

	cell struct {
		Row   int    `db:"row_idx"`
		Col   int    `db:"col_idx"`
		Value string `db:"value"`
	}
)

const upsertCell = `
	INSERT INTO cell (worksheet_id, row_idx, col_idx, value) VALUES ($1, $2, $3, $4)
	ON CONFLICT (worksheet_id, row_idx, col_idx) DO UPDATE SET value = EXCLUDED.value`

func (ws *worksheet) Rows(ctx context.Context) ([][]string, error) {
	var cells []cell
	err := ws.db.SelectContext(ctx, &cells, `
		SELECT row_idx, col_idx, value FROM cell
		WHERE worksheet_id = $1 AND value <> ''
		ORDER BY row_idx, col_idx`,
		ws.id,
	)
	if err != nil {
		return nil, errors.Wrap(err, "reading cells")
	}
	if len(cells) == 0 {
		return [][]string{}, nil
	}

	rows := make([][]string, cells[len(cells)-1].Row+1)
	for _, c := range cells {
		row := rows[c.Row]
		if len(row) <= c.Col {
			row = append(row, make([]string, c.Col+1-len(row))...)
		}
		row[c.Col] = c.Value
		rows[c.Row] = row
	}
	for i := range rows {
		if rows[i] == nil {
			rows[i] = []string{}
		}
	}
	return rows, nil
}

func (ws *worksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	return ws.inTx(ctx, func(tx *sqlx.Tx) error {
		return upsertRow(ctx, tx, ws.id, row, values)
	})
}

func (ws *worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if _, err := ws.db.ExecContext(ctx, upsertCell, ws.id, row, col, value); err != nil {
		return errors.Wrapf(err, "updating cell (%d, %d)", row, col)
	}
	return nil
}

func (ws *worksheet) AppendRow(ctx context.Context, values []string) error {
	return ws.inTx(ctx, func(tx *sqlx.Tx) error {
		var last sql.NullInt64
		err := tx.GetContext(ctx, &last,
			`SELECT MAX(row_idx) FROM cell WHERE worksheet_id = $1 AND value <> ''`, ws.id)
		if err != nil {
			return errors.Wrap(err, "finding last row")
		}
		row := 0
		if last.Valid {
			row = int(last.Int64) + 1
		}
		return upsertRow(ctx, tx, ws.id, row, values)
	})
}

func upsertRow(ctx context.Context, tx *sqlx.Tx, worksheetID, row int, values []string) error {
	for col, v := range values {
		if _, err := tx.ExecContext(ctx, upsertCell, worksheetID, row, col, v); err != nil {
			return errors.Wrapf(err, "updating cell (%d, %d)", row, col)
		}
	}
	return nil
}

func (ws *worksheet) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := ws.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
