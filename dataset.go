package leadreport

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Delimiter is the field separator of lead CSV files.
const Delimiter = ';'

// Dataset is an immutable table of lead records. Every row has exactly one
// cell per column and column names are unique.
type Dataset struct {
	columns []string
	rows    [][]string
}

// SortKey selects a column and direction for [Dataset.SortedBy]. The zero
// value means "no sort".
type SortKey struct {
	Column     string `yaml:"column"`
	Descending bool   `yaml:"descending"`
}

// IsZero reports whether k selects no column.
func (k SortKey) IsZero() bool {
	return k.Column == ""
}

// NewDataset validates and copies columns and rows into a Dataset.
func NewDataset(columns []string, rows [][]string) (*Dataset, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrDataLoad, c)
		}
		seen[c] = struct{}{}
	}
	ds := &Dataset{
		columns: slices.Clone(columns),
		rows:    make([][]string, len(rows)),
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrDataLoad, i+1, len(r), len(columns))
		}
		ds.rows[i] = slices.Clone(r)
	}
	return ds, nil
}

// LoadCSV reads the lead file at path. See [ReadCSV].
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses ';'-separated UTF-8 text. The first record holds the column
// names. A leading byte order mark is dropped and invalid UTF-8 is rejected.
func ReadCSV(r io.Reader) (*Dataset, error) {
	text := transform.NewReader(r, transform.Chain(
		unicode.BOMOverride(transform.Nop),
		encoding.UTF8Validator,
	))

	cr := csv.NewReader(text)
	cr.Comma = Delimiter

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrDataLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
		}
		rows = append(rows, rec)
	}
	return NewDataset(header, rows)
}

// Columns returns the column names in display order.
func (d *Dataset) Columns() []string {
	return slices.Clone(d.columns)
}

// Rows returns a copy of the data rows.
func (d *Dataset) Rows() [][]string {
	out := make([][]string, len(d.rows))
	for i, row := range d.rows {
		out[i] = slices.Clone(row)
	}
	return out
}

func (d *Dataset) NumColumns() int { return len(d.columns) }
func (d *Dataset) NumRows() int    { return len(d.rows) }

// Cell returns the value at row r, column c.
func (d *Dataset) Cell(r, c int) string {
	return d.rows[r][c]
}

// Column returns the values of column i.
func (d *Dataset) Column(i int) []string {
	out := make([]string, len(d.rows))
	for r, row := range d.rows {
		out[r] = row[i]
	}
	return out
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	return slices.Index(d.columns, name)
}

// Head returns a view of the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	n = min(max(n, 0), len(d.rows))
	return &Dataset{columns: d.columns, rows: d.rows[:n]}
}

// SortedBy returns a copy of d ordered by key. The sort is stable. Two cells
// that both parse as numbers compare numerically, numbers sort before text,
// and text compares bytewise. A zero key returns d unchanged.
func (d *Dataset) SortedBy(key SortKey) (*Dataset, error) {
	if key.IsZero() {
		return d, nil
	}
	col := d.ColumnIndex(key.Column)
	if col < 0 {
		return nil, fmt.Errorf("leadreport: unknown sort column %q", key.Column)
	}
	rows := slices.Clone(d.rows)
	slices.SortStableFunc(rows, func(a, b []string) int {
		c := compareCells(a[col], b[col])
		if key.Descending {
			return -c
		}
		return c
	})
	return &Dataset{columns: d.columns, rows: rows}, nil
}

func compareCells(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(fa, fb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
