package attendance

import "context"

type (
	// Store gives access to the worksheets of ledger spreadsheets.
	// No transactional guarantee is assumed between calls.
	Store interface {
		// Worksheet opens the worksheet titled `title` of spreadsheet `spreadsheetID`, creating it when absent.
		Worksheet(ctx context.Context, spreadsheetID, title string) (Worksheet, error)
	}

	// Worksheet is a grid of string cells. Rows and columns are 0-based; row 0 is the header.
	Worksheet interface {
		// Rows returns every row of the worksheet. Rows may be ragged (trailing blank cells omitted).
		Rows(ctx context.Context) ([][]string, error)
		// UpdateRow overwrites row `row` starting at column 0.
		UpdateRow(ctx context.Context, row int, values []string) error
		// UpdateCell overwrites a single cell.
		UpdateCell(ctx context.Context, row, col int, value string) error
		// AppendRow adds a row after the last non-empty row.
		AppendRow(ctx context.Context, values []string) error
	}
)
