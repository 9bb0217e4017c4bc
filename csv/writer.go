package csv

import "github.com/willabides/texty/internal/sink"

// Writer serializes a Table (or an independent stream of records) to a
// sink.Writer under a Dialect, per spec §4.3 "Writer contract".
type Writer struct {
	d   Dialect
	w   sink.Writer
	col int
}

// NewWriter wraps w for record-at-a-time writing.
func NewWriter(w sink.Writer, d Dialect) *Writer {
	return &Writer{d: d, w: w}
}

// WriteTable writes every row of t, optionally preceded by its header.
func (w *Writer) WriteTable(t *Table) error {
	if len(t.Header) > 0 {
		hdr := make(Row, len(t.Header))
		for i, h := range t.Header {
			hdr[i] = []byte(h)
		}
		if err := w.WriteRow(hdr); err != nil {
			return err
		}
	}
	rows := t.Rows
	if w.d.TrimTrailingEmptyFields {
		rows = trimTrailingEmptyRows(rows)
	}
	for _, r := range rows {
		if err := w.WriteRow(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRow writes one record, applying the dialect's quoting policy to
// each field, terminated by the dialect's line break.
func (w *Writer) WriteRow(row Row) error {
	fields := row
	if w.d.TrimTrailingEmptyFields {
		fields = trimTrailingEmpty(row)
	}
	for i, f := range fields {
		if i > 0 {
			if _, err := w.w.Write([]byte{w.d.Delimiter}); err != nil {
				return &Error{Code: EWrite, Message: err.Error()}
			}
		}
		if err := w.writeField(f); err != nil {
			return err
		}
	}
	if _, err := w.w.Write(lineBreak(w.d)); err != nil {
		return &Error{Code: EWrite, Message: err.Error()}
	}
	return nil
}

func (w *Writer) writeField(f []byte) error {
	quote := w.needsQuoting(f)
	if !quote {
		_, err := w.w.Write(f)
		if err != nil {
			return &Error{Code: EWrite, Message: err.Error()}
		}
		return nil
	}
	var out []byte
	out = append(out, w.d.Quote)
	for _, b := range f {
		if b == w.d.Quote {
			switch w.d.Escape {
			case DoubledQuote:
				out = append(out, w.d.Quote, w.d.Quote)
			case Backslash:
				out = append(out, '\\', w.d.Quote)
			default:
				out = append(out, w.d.Quote)
			}
			continue
		}
		if b == '\\' && w.d.Escape == Backslash {
			out = append(out, '\\', '\\')
			continue
		}
		out = append(out, b)
	}
	out = append(out, w.d.Quote)
	if _, err := w.w.Write(out); err != nil {
		return &Error{Code: EWrite, Message: err.Error()}
	}
	return nil
}

func (w *Writer) needsQuoting(f []byte) bool {
	if w.d.QuoteAllFields {
		return true
	}
	if len(f) == 0 {
		return w.d.QuoteEmptyFields
	}
	if !w.d.QuoteIfNeeded {
		return false
	}
	for _, b := range f {
		if b == w.d.Delimiter || b == w.d.Quote || b == '\n' || b == '\r' {
			return true
		}
	}
	if w.d.AlwaysEscapeQuotes {
		for _, b := range f {
			if b == w.d.Quote {
				return true
			}
		}
	}
	return false
}

func lineBreak(d Dialect) []byte {
	switch {
	case d.AcceptCRLF:
		return []byte("\r\n")
	case d.AcceptCR:
		return []byte("\r")
	default:
		return []byte("\n")
	}
}

func trimTrailingEmpty(row Row) Row {
	end := len(row)
	for end > 0 && len(row[end-1]) == 0 {
		end--
	}
	return row[:end]
}

func trimTrailingEmptyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = trimTrailingEmpty(r)
	}
	return out
}
