package csv

// Row is one ordered sequence of fields. Field bytes are not necessarily
// UTF-8 unless validation was requested at parse time.
type Row [][]byte

// Table is an ordered sequence of rows, with an optional header vector
// held separately, per spec §3.2.
type Table struct {
	Header     []string
	HeaderDups map[string][]int // set only under HeaderDupCollect
	Rows       []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// AppendRow appends row to the table verbatim (no width enforcement; call
// Validate to check regularity).
func (t *Table) AppendRow(row Row) {
	t.Rows = append(t.Rows, row)
}

// InsertColumn inserts value into every row at idx, padding rows shorter
// than idx with empty fields first, per spec §4.3 "Irregular rows".
func (t *Table) InsertColumn(idx int, values []string) {
	for i, row := range t.Rows {
		for len(row) < idx {
			row = append(row, []byte{})
		}
		var v []byte
		if i < len(values) {
			v = []byte(values[i])
		}
		if idx >= len(row) {
			row = append(row, v)
		} else {
			row = append(row, nil)
			copy(row[idx+1:], row[idx:])
			row[idx] = v
		}
		t.Rows[i] = row
	}
}

// SetField overwrites the field at (row, col), growing the row with empty
// fields if necessary.
func (t *Table) SetField(row, col int, value []byte) {
	for row >= len(t.Rows) {
		t.Rows = append(t.Rows, Row{})
	}
	r := t.Rows[row]
	for len(r) <= col {
		r = append(r, []byte{})
	}
	r[col] = value
	t.Rows[row] = r
}

// MinColCount returns the shortest row length, or 0 for an empty table.
func (t *Table) MinColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	min := len(t.Rows[0])
	for _, r := range t.Rows[1:] {
		if len(r) < min {
			min = len(r)
		}
	}
	return min
}

// MaxColCount returns the longest row length, or 0 for an empty table.
func (t *Table) MaxColCount() int {
	max := 0
	for _, r := range t.Rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// Validate reports whether every row matches the width required by
// dialect: the header width if a header is present, else the first row's
// width. AllowIrregularRows makes this always succeed.
func (t *Table) Validate(d Dialect) error {
	if d.AllowIrregularRows || len(t.Rows) == 0 {
		return nil
	}
	want := len(t.Header)
	if want == 0 {
		want = len(t.Rows[0])
	}
	for i, r := range t.Rows {
		if len(r) != want {
			return &Error{Code: EInvalid, Message: "row width does not match table width", RowIndex: i}
		}
	}
	return nil
}

// NormalizeToMax right-pads every row with empty fields up to MaxColCount.
func (t *Table) NormalizeToMax() {
	max := t.MaxColCount()
	for i, r := range t.Rows {
		for len(r) < max {
			r = append(r, []byte{})
		}
		t.Rows[i] = r
	}
}
