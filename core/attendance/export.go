package attendance

import (
	"bytes"
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

// Export renders the ledger of `stage` and `field` as an xlsx workbook.
func (svc *Service) Export(ctx context.Context, stage, field string) (*bytes.Buffer, error) {
	rows, err := svc.Snapshot(ctx, stage, field)
	if err != nil {
		return nil, err
	}
	return WriteXLSX(field, rows)
}

// WriteXLSX writes `rows` into a single-sheet workbook named after `title`.
func WriteXLSX(title string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, errors.Wrap(err, "computing cell name")
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err = f.SetSheetRow(sheet, axis, &values); err != nil {
			return nil, errors.Wrapf(err, "writing row %d", i+1)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}

func sheetName(title string) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(title))
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = strings.TrimSpace(string(r[:maxSheetNameLen]))
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}
