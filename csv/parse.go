package csv

import "unicode/utf8"

// ParseLimits bounds resource usage during Parse, per spec §4.1 defaults.
type ParseLimits struct {
	MaxRows      int
	MaxCols      int
	MaxFieldSize int
	ValidateUTF8 bool
}

// DefaultParseLimits returns the engine's conservative defaults.
func DefaultParseLimits() ParseLimits {
	return ParseLimits{MaxRows: 1_000_000, MaxCols: 10_000, MaxFieldSize: 16 << 20, ValidateUTF8: true}
}

// Parse scans buf as a complete CSV document under dialect d, producing a
// Table. Header extraction and dup-key resolution are applied after the
// raw rows are collected, per spec §3.2/§4.3.
func Parse(buf []byte, d Dialect, limits ParseLimits) (*Table, error) {
	s := NewScanner(d)
	evs, err := s.Feed(buf)
	if err != nil {
		return nil, err
	}
	more, err := s.Finish()
	if err != nil {
		return nil, err
	}
	evs = append(evs, more...)

	t := &Table{}
	var row Row
	rowIdx := 0
	for _, ev := range evs {
		switch ev.Type {
		case RecordBegin:
			row = Row{}
		case Field:
			if limits.ValidateUTF8 && !utf8.Valid(ev.Value) {
				return nil, &Error{Code: EInvalidUTF8, Message: "field is not valid UTF-8", RowIndex: ev.RowIndex, ColIndex: ev.ColIndex}
			}
			if limits.MaxFieldSize > 0 && len(ev.Value) > limits.MaxFieldSize {
				return nil, &Error{Code: ELimit, Message: "field exceeds max_field_size", RowIndex: ev.RowIndex, ColIndex: ev.ColIndex}
			}
			if limits.MaxCols > 0 && len(row) >= limits.MaxCols {
				return nil, &Error{Code: ETooManyCols, Message: "row exceeds max_cols", RowIndex: ev.RowIndex, ColIndex: ev.ColIndex}
			}
			row = append(row, ev.Value)
		case RecordEnd:
			if limits.MaxRows > 0 && rowIdx >= limits.MaxRows {
				return nil, &Error{Code: ETooManyRows, Message: "table exceeds max_rows", RowIndex: rowIdx}
			}
			t.Rows = append(t.Rows, row)
			rowIdx++
		case End:
		}
	}

	if d.TreatFirstRowAsHeader && len(t.Rows) > 0 {
		if err := extractHeader(t, d); err != nil {
			return nil, err
		}
	}
	if err := t.Validate(d); err != nil {
		return nil, err
	}
	return t, nil
}

func extractHeader(t *Table, d Dialect) error {
	raw := t.Rows[0]
	t.Rows = t.Rows[1:]
	names := make([]string, len(raw))
	for i, f := range raw {
		names[i] = string(f)
	}

	seen := map[string]int{}
	for i, name := range names {
		if _, ok := seen[name]; !ok {
			seen[name] = i
			continue
		}
		switch d.HeaderDupMode {
		case HeaderDupError:
			return &Error{Code: EHeaderDup, Message: "duplicate header name: " + name, ColIndex: i}
		case HeaderDupFirstWins:
			// keep first occurrence's index mapping; later dup is inert.
		case HeaderDupLastWins:
			seen[name] = i
		case HeaderDupCollect:
			if t.HeaderDups == nil {
				t.HeaderDups = map[string][]int{}
			}
			if len(t.HeaderDups[name]) == 0 {
				t.HeaderDups[name] = []int{seen[name]}
			}
			t.HeaderDups[name] = append(t.HeaderDups[name], i)
		}
	}
	t.Header = names
	return nil
}
