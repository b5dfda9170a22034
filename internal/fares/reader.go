package fares

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyInput is returned when the source contains no data rows.
var ErrEmptyInput = errors.New("input contains no data rows")

// Reader reads fact-table rows from a CSV source. The header row maps
// column names to positions, so field order in the file is irrelevant.
type Reader struct {
	cr    *csv.Reader
	index map[string]int
	row   int
}

// NewReader wraps r and reads the header. Missing required columns are
// a structural error: the run cannot proceed without them.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; short rows drop in sanitize

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return &Reader{cr: cr, index: index}, nil
}

// Read returns the next record. io.EOF signals the end of input.
// Malformed CSV lines are skipped, not fatal; they count as row-level
// errors at the sanitize stage because the row never reaches it.
func (r *Reader) Read() (RawRecord, error) {
	for {
		fields, err := r.cr.Read()
		if err == io.EOF {
			return RawRecord{}, io.EOF
		}
		if err != nil {
			// Skip unparseable lines the same way the source loader does.
			if errors.Is(err, csv.ErrFieldCount) {
				continue
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				continue
			}
			return RawRecord{}, fmt.Errorf("read row: %w", err)
		}

		row := make(Row, len(r.index))
		for name, i := range r.index {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		rec := FromRow(row, r.row)
		r.row++
		return rec, nil
	}
}

// ReadAll reads every record in input order.
func ReadAll(src io.Reader) ([]RawRecord, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	var out []RawRecord
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, ErrEmptyInput
	}
	return out, nil
}
