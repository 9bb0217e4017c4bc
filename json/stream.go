package json

import "github.com/willabides/texty/internal/breader"

// EventType is the streaming parser's event vocabulary.
type EventType int

const (
	NullEvent EventType = iota
	BoolEvent
	NumberEvent
	StringEvent
	ArrayBeginEvent
	ArrayEndEvent
	ObjectBeginEvent
	ObjectEndEvent
	KeyEvent
)

// Event is one streaming parser event. Value is set for NullEvent, BoolEvent,
// NumberEvent, and StringEvent. Key is set for KeyEvent.
type Event struct {
	Type  EventType
	Key   string
	Value *Value
}

type frameKind int

const (
	arrFrame frameKind = iota
	objFrame
)

// phase values, shared by array and object frames:
//
//	array:  0 expect value or close, 1 expect comma or close
//	object: 0 expect key or close, 1 expect colon, 2 expect value, 3 expect comma or close
type frame struct {
	kind    frameKind
	phase   int
	seenAny bool
}

// Scanner is an incremental, event-driven JSON parser. Feed may be called
// with partial data; a string or number split across calls is buffered
// internally and emitted whole on completion. Incomplete trailing values are
// not emitted until Finish is called.
type Scanner struct {
	opts       ParseOptions
	pending    []byte
	stack      []frame
	topDone    bool
	finished   bool
	bomChecked bool
}

// NewScanner returns a Scanner parsing a single top-level value under opts.
func NewScanner(opts ParseOptions) *Scanner {
	return &Scanner{opts: opts}
}

// Feed appends data and returns the events the accumulated buffer
// determines, assuming more input may follow: a value that more input could
// still extend, such as a number ending at the end of the buffer, is held
// back until a later Feed or Finish.
func (s *Scanner) Feed(data []byte) ([]Event, error) {
	if s.finished {
		return nil, &Error{Code: EInvalid, Message: "feed after finish"}
	}
	s.pending = append(s.pending, data...)
	if m := s.opts.maxTotalBytes(); m > 0 && len(s.pending) > m {
		return nil, &Error{Code: ELimit, Message: "input exceeds max_total_bytes"}
	}
	return s.drain(false)
}

// Finish signals end of input, validating structural completeness and
// emitting any value left incomplete by the last Feed call.
func (s *Scanner) Finish() ([]Event, error) {
	if s.finished {
		return nil, &Error{Code: EInvalid, Message: "finish called twice"}
	}
	evs, err := s.drain(true)
	if err != nil {
		return evs, err
	}
	if !s.topDone {
		return evs, &Error{Code: EIncomplete, Message: "input ended before a complete value was parsed"}
	}
	r := breader.New(s.pending)
	p := &parser{r: r, opts: s.opts, final: true}
	p.skipSpace()
	if !r.AtEOF() {
		return evs, &Error{Code: EInvalid, Message: "trailing garbage after top-level value"}
	}
	s.finished = true
	return evs, nil
}

func (s *Scanner) drain(final bool) ([]Event, error) {
	var out []Event
	for {
		if s.topDone {
			return out, nil
		}
		r := breader.New(s.pending)
		p := &parser{r: r, opts: s.opts, final: final}
		if !s.bomChecked {
			if s.opts.AllowLeadingBOM {
				p.skipBOM()
			}
			s.bomChecked = true
		}
		p.skipSpace()
		var evs []Event
		var err error
		if len(s.stack) == 0 {
			evs, err = s.stepTop(p)
		} else {
			f := &s.stack[len(s.stack)-1]
			if f.kind == arrFrame {
				evs, err = s.stepArray(p, f)
			} else {
				evs, err = s.stepObject(p, f)
			}
		}
		if err != nil {
			if jerr, ok := err.(*Error); ok && jerr.Code == EIncomplete && !final {
				return out, nil
			}
			return out, err
		}
		s.pending = s.pending[r.Offset():]
		out = append(out, evs...)
	}
}

func (s *Scanner) push(f frame) {
	s.stack = append(s.stack, f)
}

func (s *Scanner) pop() {
	s.stack = s.stack[:len(s.stack)-1]
	if len(s.stack) == 0 {
		s.topDone = true
	}
}

func scalarEvent(v *Value) Event {
	switch v.Type {
	case NullValue:
		return Event{Type: NullEvent, Value: v}
	case BoolValue:
		return Event{Type: BoolEvent, Value: v}
	case NumberValue:
		return Event{Type: NumberEvent, Value: v}
	default:
		return Event{Type: StringEvent, Value: v}
	}
}

func (s *Scanner) stepTop(p *parser) ([]Event, error) {
	switch p.r.Peek() {
	case '[':
		p.r.Consume()
		s.push(frame{kind: arrFrame})
		return []Event{{Type: ArrayBeginEvent}}, nil
	case '{':
		p.r.Consume()
		s.push(frame{kind: objFrame})
		return []Event{{Type: ObjectBeginEvent}}, nil
	default:
		v, err := p.parseValue(0)
		if err != nil {
			return nil, err
		}
		s.topDone = true
		return []Event{scalarEvent(v)}, nil
	}
}

func (s *Scanner) stepArray(p *parser, f *frame) ([]Event, error) {
	switch f.phase {
	case 0:
		if p.r.Peek() == ']' {
			if !f.seenAny || p.opts.AllowTrailingCommas {
				p.r.Consume()
				s.pop()
				return []Event{{Type: ArrayEndEvent}}, nil
			}
			return nil, p.tokErr("expected value after ',' in array")
		}
		switch p.r.Peek() {
		case '[':
			p.r.Consume()
			f.seenAny = true
			f.phase = 1
			s.push(frame{kind: arrFrame})
			return []Event{{Type: ArrayBeginEvent}}, nil
		case '{':
			p.r.Consume()
			f.seenAny = true
			f.phase = 1
			s.push(frame{kind: objFrame})
			return []Event{{Type: ObjectBeginEvent}}, nil
		default:
			v, err := p.parseValue(0)
			if err != nil {
				return nil, err
			}
			f.seenAny = true
			f.phase = 1
			return []Event{scalarEvent(v)}, nil
		}
	default: // phase 1
		switch p.r.Peek() {
		case ',':
			p.r.Consume()
			f.phase = 0
			return nil, nil
		case ']':
			p.r.Consume()
			s.pop()
			return []Event{{Type: ArrayEndEvent}}, nil
		default:
			return nil, p.tokErr("expected ',' or ']' in array")
		}
	}
}

func (s *Scanner) stepObject(p *parser, f *frame) ([]Event, error) {
	switch f.phase {
	case 0:
		if p.r.Peek() == '}' {
			if !f.seenAny || p.opts.AllowTrailingCommas {
				p.r.Consume()
				s.pop()
				return []Event{{Type: ObjectEndEvent}}, nil
			}
			return nil, p.tokErr("expected member after ',' in object")
		}
		var key string
		var err error
		if p.r.Peek() == '\'' && p.opts.AllowSingleQuotes {
			key, err = p.parseQuotedString('\'')
		} else {
			key, err = p.parseString()
		}
		if err != nil {
			return nil, err
		}
		f.phase = 1
		return []Event{{Type: KeyEvent, Key: key}}, nil
	case 1:
		if p.r.Peek() != ':' {
			return nil, p.tokErr("expected ':' after object key")
		}
		p.r.Consume()
		f.phase = 2
		return nil, nil
	case 2:
		switch p.r.Peek() {
		case '[':
			p.r.Consume()
			f.seenAny = true
			f.phase = 3
			s.push(frame{kind: arrFrame})
			return []Event{{Type: ArrayBeginEvent}}, nil
		case '{':
			p.r.Consume()
			f.seenAny = true
			f.phase = 3
			s.push(frame{kind: objFrame})
			return []Event{{Type: ObjectBeginEvent}}, nil
		default:
			v, err := p.parseValue(0)
			if err != nil {
				return nil, err
			}
			f.seenAny = true
			f.phase = 3
			return []Event{scalarEvent(v)}, nil
		}
	default: // phase 3
		switch p.r.Peek() {
		case ',':
			p.r.Consume()
			f.phase = 0
			return nil, nil
		case '}':
			p.r.Consume()
			s.pop()
			return []Event{{Type: ObjectEndEvent}}, nil
		default:
			return nil, p.tokErr("expected ',' or '}' in object")
		}
	}
}
