package attendance

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// MarkerLabel is the name cell of the row that records the time of the latest submission.
	MarkerLabel = "Last_Submit"

	DefaultSequenceLabel = "N"
	DefaultNameLabel     = "F.I.SH"

	seqCol       = 0
	nameCol      = 1
	firstDateCol = 2
)

// markerKeys are the identity keys of the accepted marker row labels.
var markerKeys = keySet(MarkerLabel, "last submit", "so'nggi submit", "so‘nggi submit vaqti")

type LedgerOptions struct {
	SequenceLabel string
	NameLabel     string
	Labels        StatusLabels
	// CreateMissingRows appends a row (with the next ordinal) for unknown students
	// instead of reporting them as missing.
	CreateMissingRows bool
}

// Ledger reconciles attendance marks with a worksheet holding one row per student and one column per date.
type Ledger struct {
	opts LedgerOptions
}

func NewLedger(opts LedgerOptions) *Ledger {
	if opts.SequenceLabel == "" {
		opts.SequenceLabel = DefaultSequenceLabel
	}
	if opts.NameLabel == "" {
		opts.NameLabel = DefaultNameLabel
	}
	if opts.Labels == nil {
		opts.Labels = DefaultStatusLabels
	}
	return &Ledger{opts: opts}
}

// Sync writes `marks` into the `date` column of `ws` and stamps the marker row with `tm`.
//
// The date column is created on first use and the header is re-read after that write so the
// column index reflects the persisted header. Nothing is locked: concurrent syncs of the same
// worksheet race and the last writer wins.
func (l *Ledger) Sync(ctx context.Context, ws Worksheet, date, tm string, marks []Mark) (SyncResult, error) {
	rows, err := ws.Rows(ctx)
	if err != nil {
		return SyncResult{}, errors.Wrap(err, "reading ledger")
	}

	rows, err = l.ensureHeader(ctx, ws, rows)
	if err != nil {
		return SyncResult{}, err
	}

	col := dateColumn(rows[0], date)
	if col < 0 {
		header := append(append(make([]string, 0, len(rows[0])+1), rows[0]...), date)
		if err = ws.UpdateRow(ctx, 0, header); err != nil {
			return SyncResult{}, errors.Wrapf(err, "adding date column %q", date)
		}
		if rows, err = ws.Rows(ctx); err != nil {
			return SyncResult{}, errors.Wrap(err, "re-reading ledger")
		}
		if len(rows) == 0 {
			return SyncResult{}, errors.Errorf("ledger header vanished after adding date column %q", date)
		}
		if col = dateColumn(rows[0], date); col < 0 {
			return SyncResult{}, errors.Errorf("date column %q missing after header update", date)
		}
	}

	idx := indexRows(rows)
	res := SyncResult{Missing: make([]string, 0)}
	missing := make(map[string]bool)
	nextRow := len(rows)

	for _, m := range marks {
		key := identityKey(m.Student)
		row, ok := idx.rows[key]
		if !ok {
			if !l.opts.CreateMissingRows {
				if !missing[m.Student] {
					missing[m.Student] = true
					res.Missing = append(res.Missing, m.Student)
				}
				continue
			}

			idx.maxOrdinal++
			values := make([]string, col+1)
			values[seqCol] = strconv.Itoa(idx.maxOrdinal)
			values[nameCol] = m.Student
			values[col] = l.opts.Labels.Label(m.Status)
			if err = ws.AppendRow(ctx, values); err != nil {
				return res, errors.Wrapf(err, "adding row for %q", m.Student)
			}
			idx.rows[key] = nextRow
			idx.names = append(idx.names, m.Student)
			nextRow++
			res.Updated++
			continue
		}

		if err = ws.UpdateCell(ctx, row, col, l.opts.Labels.Label(m.Status)); err != nil {
			return res, errors.Wrapf(err, "writing status of %q", m.Student)
		}
		res.Updated++
	}

	if idx.marker >= 0 {
		err = ws.UpdateCell(ctx, idx.marker, col, tm)
	} else {
		values := make([]string, col+1)
		values[nameCol] = MarkerLabel
		values[col] = tm
		err = ws.AppendRow(ctx, values)
	}
	if err != nil {
		return res, errors.Wrap(err, "stamping submission time")
	}

	if len(res.Missing) > 0 {
		res.Suggestions = Suggest(res.Missing, idx.names)
	}
	return res, nil
}

// ensureHeader writes the default header to an empty worksheet and completes a header shorter than
// its two fixed columns.
func (l *Ledger) ensureHeader(ctx context.Context, ws Worksheet, rows [][]string) ([][]string, error) {
	fixed := []string{l.opts.SequenceLabel, l.opts.NameLabel}
	if len(rows) == 0 {
		if err := ws.UpdateRow(ctx, 0, fixed); err != nil {
			return nil, errors.Wrap(err, "creating ledger header")
		}
		return [][]string{fixed}, nil
	}
	header := rows[0]
	if len(header) >= firstDateCol {
		return rows, nil
	}

	completed := make([]string, firstDateCol)
	copy(completed, header)
	for i := range completed {
		if strings.TrimSpace(completed[i]) == "" {
			completed[i] = fixed[i]
		}
	}
	if err := ws.UpdateRow(ctx, 0, completed); err != nil {
		return nil, errors.Wrap(err, "creating ledger header")
	}
	rows[0] = completed
	return rows, nil
}

type rowIndex struct {
	rows       map[string]int // identity key -> row
	names      []string       // display names, in row order
	marker     int
	maxOrdinal int
}

// indexRows maps each student's identity key to its first row and locates the marker row.
func indexRows(rows [][]string) rowIndex {
	idx := rowIndex{rows: make(map[string]int, len(rows)), marker: -1}
	for i := 1; i < len(rows); i++ {
		name := cell(rows[i], nameCol)
		key := identityKey(name)
		if key == "" {
			continue
		}
		if markerKeys[key] {
			if idx.marker < 0 {
				idx.marker = i
			}
			continue
		}
		if _, ok := idx.rows[key]; !ok {
			idx.rows[key] = i
			idx.names = append(idx.names, name)
		}
		if n, err := strconv.Atoi(strings.TrimSpace(cell(rows[i], seqCol))); err == nil && n > idx.maxOrdinal {
			idx.maxOrdinal = n
		}
	}
	return idx
}

// dateColumn returns the index of `date` in the header, or -1.
func dateColumn(header []string, date string) int {
	for i := firstDateCol; i < len(header); i++ {
		if header[i] == date {
			return i
		}
	}
	return -1
}

// identityKey is the case-insensitive, whitespace-trimmed key used to match student names.
func identityKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

func keySet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[identityKey(n)] = true
	}
	return set
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
