package csv

import (
	"github.com/willabides/texty/internal/arena"
	"github.com/willabides/texty/internal/breader"
)

// EventType is the CSV streaming event vocabulary, per spec §4.3:
// incremental feeds produce RECORD_BEGIN -> FIELD* -> RECORD_END in order,
// terminated by END.
type EventType int

const (
	RecordBegin EventType = iota
	Field
	RecordEnd
	End
)

// Event is one streaming scanner event. RowIndex/ColIndex are 0-based.
type Event struct {
	Type     EventType
	RowIndex int
	ColIndex int
	Value    []byte
}

// Scanner is an incremental CSV tokenizer. Feed may be called with partial
// data; state for a field or record split across calls is carried between
// calls. Finish must be called exactly once to flush any trailing partial
// record and emit End.
type Scanner struct {
	d        Dialect
	pending  []byte
	consumed int // total bytes permanently dropped from pending across calls
	rowIndex int
	colIndex int
	inRecord bool
	done     bool

	// fields bump-allocates field values so a document's many small
	// per-field slices land in a handful of blocks instead of one GC-tracked
	// allocation apiece. It stays alive for as long as any Event.Value or
	// Table field built from it is reachable.
	fields *arena.Arena
}

// NewScanner returns a Scanner using dialect d.
func NewScanner(d Dialect) *Scanner {
	return &Scanner{d: d, fields: arena.New()}
}

// Feed appends data and returns any events that can be produced from the
// accumulated buffer without assuming more input follows.
func (s *Scanner) Feed(data []byte) ([]Event, error) {
	if s.done {
		return nil, &Error{Code: EInvalid, Message: "feed after finish"}
	}
	s.pending = append(s.pending, data...)
	return s.drain(false)
}

// Finish signals end of input, flushing any partial record and emitting a
// trailing End event.
func (s *Scanner) Finish() ([]Event, error) {
	if s.done {
		return nil, &Error{Code: EInvalid, Message: "finish called twice"}
	}
	evs, err := s.drain(true)
	if err != nil {
		return evs, err
	}
	s.done = true
	return append(evs, Event{Type: End}), nil
}

func (s *Scanner) drain(final bool) ([]Event, error) {
	var out []Event
	for {
		r := breader.New(s.pending)
		if r.AtEOF() {
			if final && s.inRecord {
				out = append(out, Event{Type: RecordEnd, RowIndex: s.rowIndex})
				s.inRecord = false
				s.rowIndex++
			}
			return out, nil
		}
		if !s.inRecord && s.d.AllowComments && hasCommentPrefix(r, s.d.CommentPrefix) {
			n, ok := skipLine(r, final)
			if !ok {
				return out, nil
			}
			s.pending = s.pending[n:]
			continue
		}
		if !s.inRecord {
			out = append(out, Event{Type: RecordBegin, RowIndex: s.rowIndex})
			s.inRecord = true
			s.colIndex = 0
		}
		val, term, needMore, cerr := scanField(r, s.d, final)
		if needMore {
			return out, nil
		}
		if cerr != nil {
			cerr.RowIndex = s.rowIndex
			cerr.ColIndex = s.colIndex
			return out, cerr
		}
		out = append(out, Event{Type: Field, RowIndex: s.rowIndex, ColIndex: s.colIndex, Value: s.fields.AllocBytes(val)})
		s.colIndex++
		s.pending = s.pending[r.Offset():]
		if term == termRecordEnd || term == termEOF {
			out = append(out, Event{Type: RecordEnd, RowIndex: s.rowIndex})
			s.inRecord = false
			s.rowIndex++
		}
		if term == termEOF {
			return out, nil
		}
	}
}

func hasCommentPrefix(r *breader.Reader, prefix string) bool {
	if prefix == "" {
		return false
	}
	return r.HasPrefix(prefix)
}

// skipLine consumes through the next line break (inclusive). It returns
// the number of bytes consumed and whether the line was fully available;
// when final is false and no line break was found, ok is false and
// nothing should be consumed yet.
func skipLine(r *breader.Reader, final bool) (int, bool) {
	for {
		b := r.Peek()
		if b == breader.EOF {
			if final {
				return r.Offset(), true
			}
			return 0, false
		}
		if b == '\n' || b == '\r' {
			r.Consume()
			return r.Offset(), true
		}
		r.Consume()
	}
}

const (
	termDelimiter = iota
	termRecordEnd
	termEOF
)

// scanField reads one field starting at r's current position. It returns
// the field value, a terminator kind, and needMore=true if final is false
// and the field's end could not yet be determined from buffered data.
func scanField(r *breader.Reader, d Dialect, final bool) (value []byte, term int, needMore bool, err *Error) {
	if d.AllowSpaceAfterDelimiter {
		for r.Peek() == ' ' {
			r.Consume()
		}
	}
	if r.Peek() == int(d.Quote) {
		return scanQuotedField(r, d, final)
	}
	var buf []byte
	for {
		b := r.Peek()
		switch {
		case b == breader.EOF:
			if !final {
				return nil, 0, true, nil
			}
			return trimIfNeeded(buf, d), termEOF, false, nil
		case b == int(d.Delimiter):
			r.Consume()
			return trimIfNeeded(buf, d), termDelimiter, false, nil
		case b == '\n' || b == '\r':
			r.Consume()
			return trimIfNeeded(buf, d), termRecordEnd, false, nil
		case b == int(d.Quote) && !d.AllowUnquotedQuotes:
			return nil, 0, false, &Error{Code: EUnexpectedQuote, Message: "unexpected quote in unquoted field"}
		default:
			r.Consume()
			buf = append(buf, byte(b))
		}
	}
}

func trimIfNeeded(v []byte, d Dialect) []byte {
	if !d.TrimUnquotedFields {
		return v
	}
	start, end := 0, len(v)
	for start < end && (v[start] == ' ' || v[start] == '\t') {
		start++
	}
	for end > start && (v[end-1] == ' ' || v[end-1] == '\t') {
		end--
	}
	return v[start:end]
}

func scanQuotedField(r *breader.Reader, d Dialect, final bool) (value []byte, term int, needMore bool, err *Error) {
	r.Consume() // opening quote
	var buf []byte
	allowNewline := d.NewlineInQuotes || d.AllowUnquotedNewlines
	for {
		b := r.Peek()
		switch {
		case b == breader.EOF:
			if final {
				return nil, 0, false, &Error{Code: EUnterminatedQuote, Message: "unterminated quoted field"}
			}
			return nil, 0, true, nil
		case b == int(d.Quote):
			r.Consume()
			if d.Escape == DoubledQuote && r.Peek() == int(d.Quote) {
				r.Consume()
				buf = append(buf, d.Quote)
				continue
			}
			// field closed; consume trailing delimiter/newline/EOF
			n := r.Peek()
			switch {
			case n == breader.EOF:
				if !final {
					return nil, 0, true, nil
				}
				return buf, termEOF, false, nil
			case n == int(d.Delimiter):
				r.Consume()
				return buf, termDelimiter, false, nil
			case n == '\n' || n == '\r':
				r.Consume()
				return buf, termRecordEnd, false, nil
			default:
				return nil, 0, false, &Error{Code: EUnexpectedQuote, Message: "unexpected data after closing quote"}
			}
		case b == '\\' && d.Escape == Backslash:
			r.Consume()
			n := r.Peek()
			if n == breader.EOF {
				if !final {
					return nil, 0, true, nil
				}
				return nil, 0, false, &Error{Code: EUnterminatedQuote, Message: "unterminated escape in quoted field"}
			}
			r.Consume()
			buf = append(buf, byte(n))
		case (b == '\n' || b == '\r') && !allowNewline:
			return nil, 0, false, &Error{Code: EUnterminatedQuote, Message: "newline in quoted field not permitted by dialect"}
		default:
			buf = append(buf, byte(r.Consume()))
		}
	}
}
