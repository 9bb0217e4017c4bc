package yaml

import (
	"io"
	"strconv"

	"github.com/willabides/texty/internal/parserc"
	"github.com/willabides/texty/internal/yamlh"
)

// StreamEventType tags one event of the public streaming API (spec §4.5
// "streaming contract"). It mirrors internal/yamlh.Event's event vocabulary
// but adds DIRECTIVE and INDICATOR, synthesized from fields the internal
// scanner/parser already carries but never surfaced as their own events.
type StreamEventType int

const (
	EvStreamStart StreamEventType = iota
	EvStreamEnd
	EvDocumentStart
	EvDocumentEnd
	EvDirective
	EvSequenceStart
	EvSequenceEnd
	EvMappingStart
	EvMappingEnd
	EvScalar
	EvAlias
	EvIndicator
)

// StreamEvent is one event of a low-level streaming parse, for callers
// that want the token-like shape directly instead of a Node tree.
type StreamEvent struct {
	Type StreamEventType

	Anchor string
	Tag    string
	Value  string

	// DirectiveName is "YAML" or "TAG" for EvDirective; DirectiveValue/
	// DirectiveValue2 carry the version major/minor or handle/prefix.
	DirectiveName   string
	DirectiveValue  string
	DirectiveValue2 string

	AliasName string

	// Indicator carries the single-byte indicator character for
	// EvIndicator ('&', '*', '!', '-', '.').
	Indicator byte

	FlowStyle FlowStyle
	Implicit  bool

	Offset, Line, Col int
}

// Stream is a pull-based low-level YAML event reader, per spec §4.5's
// streaming contract. Unlike Decode/ParseAll it does not build a Node
// tree or resolve tags; it surfaces the raw event shape for callers doing
// their own projection (e.g. a YAML-to-JSON transcoder).
type Stream struct {
	p       *parserc.YamlParser
	pending []StreamEvent
	done    bool

	// cs is non-nil for a Stream built by NewChunkedStream, which is
	// driven by Feed/Finish rather than Next.
	cs *chunkedStream
}

// NewStream returns a Stream reading from r. It pulls a complete event
// at a time from r synchronously; use NewChunkedStream for a stream that
// accepts its input incrementally.
func NewStream(r io.Reader) *Stream {
	return &Stream{p: parserc.New(r)}
}

// NewChunkedStream returns a Stream driven by Feed/Finish instead of a
// synchronous io.Reader, per spec §4.5's chunked-feeding requirement. Next
// must not be called on a Stream constructed this way.
func NewChunkedStream() *Stream {
	return &Stream{cs: newChunkedStream()}
}

// Feed appends data and returns any events the accumulated input
// unambiguously determines; it never blocks waiting for bytes Feed
// itself hasn't been given yet. Call Finish exactly once when the input
// is exhausted.
func (s *Stream) Feed(data []byte) ([]StreamEvent, error) {
	if s.cs == nil {
		return nil, &Error{Code: EInvalid, Message: "Feed called on a Stream not built with NewChunkedStream"}
	}
	raw, err := s.cs.push(data, false)
	return s.harvestChunk(raw, err)
}

// Finish signals that no further input will arrive, returning any final
// events. If the accumulated input does not form a complete stream, the
// returned error carries EIncomplete rather than EInvalid.
func (s *Stream) Finish() ([]StreamEvent, error) {
	if s.cs == nil {
		return nil, &Error{Code: EInvalid, Message: "Finish called on a Stream not built with NewChunkedStream"}
	}
	raw, err := s.cs.push(nil, true)
	events, err := s.harvestChunk(raw, err)
	if err == nil {
		return events, nil
	}
	if yerr, ok := err.(*Error); ok && s.cs.p.Eof {
		yerr.Code = EIncomplete
	}
	return events, err
}

func (s *Stream) harvestChunk(raw []*yamlh.Event, err error) ([]StreamEvent, error) {
	var out []StreamEvent
	for _, ev := range raw {
		out = append(out, s.project(ev)...)
	}
	if err != nil {
		return out, &Error{Code: EInvalid, Message: err.Error()}
	}
	return out, nil
}

// Next returns the next event, or io.EOF once the stream is exhausted.
// It must not be called on a Stream built by NewChunkedStream.
func (s *Stream) Next() (*StreamEvent, error) {
	for len(s.pending) == 0 {
		if s.done {
			return nil, io.EOF
		}
		if s.cs != nil {
			return nil, &Error{Code: EState, Message: "Next called on a chunked Stream; use Feed/Finish"}
		}
		ev, err := parserc.Parse(s.p)
		if err != nil {
			return nil, &Error{Code: EInvalid, Message: err.Error()}
		}
		s.pending = s.project(ev)
		if ev.Type == yamlh.STREAM_END_EVENT {
			s.done = true
		}
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	return &next, nil
}

// project expands one internal event into the public events it implies:
// a DOCUMENT-START carrying directives yields DIRECTIVE events and an
// INDICATOR for the "---" marker ahead of the DOCUMENT-START event
// itself; anchored/aliased/tagged nodes get a leading INDICATOR.
func (s *Stream) project(ev *yamlh.Event) []StreamEvent {
	pos := func() (int, int, int) { return ev.Start_mark.Index, ev.Start_mark.Line + 1, ev.Start_mark.Column + 1 }
	off, line, col := pos()
	base := StreamEvent{Offset: off, Line: line, Col: col}

	var out []StreamEvent
	switch ev.Type {
	case yamlh.STREAM_START_EVENT:
		out = append(out, withType(base, EvStreamStart))
	case yamlh.STREAM_END_EVENT:
		out = append(out, withType(base, EvStreamEnd))
	case yamlh.DOCUMENT_START_EVENT:
		if ev.Version_directive != nil {
			d := withType(base, EvDirective)
			d.DirectiveName = "YAML"
			d.DirectiveValue = strconv.Itoa(int(ev.Version_directive.Major))
			d.DirectiveValue2 = strconv.Itoa(int(ev.Version_directive.Minor))
			out = append(out, d)
		}
		for _, td := range ev.Tag_directives {
			d := withType(base, EvDirective)
			d.DirectiveName = "TAG"
			d.DirectiveValue = string(td.Handle)
			d.DirectiveValue2 = string(td.Prefix)
			out = append(out, d)
		}
		if !ev.Implicit {
			out = append(out, indicatorEvent(base, '-'))
		}
		de := withType(base, EvDocumentStart)
		de.Implicit = ev.Implicit
		out = append(out, de)
	case yamlh.DOCUMENT_END_EVENT:
		if !ev.Implicit {
			out = append(out, indicatorEvent(base, '.'))
		}
		de := withType(base, EvDocumentEnd)
		de.Implicit = ev.Implicit
		out = append(out, de)
	case yamlh.ALIAS_EVENT:
		out = append(out, indicatorEvent(base, '*'))
		a := withType(base, EvAlias)
		a.AliasName = string(ev.Anchor)
		out = append(out, a)
	case yamlh.SCALAR_EVENT:
		out = append(out, anchorTagIndicators(base, ev)...)
		sc := withType(base, EvScalar)
		sc.Anchor = string(ev.Anchor)
		sc.Tag = string(ev.Tag)
		sc.Value = string(ev.Value)
		sc.Implicit = ev.Implicit
		out = append(out, sc)
	case yamlh.SEQUENCE_START_EVENT:
		out = append(out, anchorTagIndicators(base, ev)...)
		ss := withType(base, EvSequenceStart)
		ss.Anchor = string(ev.Anchor)
		ss.Tag = string(ev.Tag)
		ss.Implicit = ev.Implicit
		ss.FlowStyle = seqFlowStyleOf(ev.Sequence_style())
		out = append(out, ss)
	case yamlh.SEQUENCE_END_EVENT:
		out = append(out, withType(base, EvSequenceEnd))
	case yamlh.MAPPING_START_EVENT:
		out = append(out, anchorTagIndicators(base, ev)...)
		ms := withType(base, EvMappingStart)
		ms.Anchor = string(ev.Anchor)
		ms.Tag = string(ev.Tag)
		ms.Implicit = ev.Implicit
		ms.FlowStyle = mapFlowStyleOf(ev.Mapping_style())
		out = append(out, ms)
	case yamlh.MAPPING_END_EVENT:
		out = append(out, withType(base, EvMappingEnd))
	default:
		return nil
	}
	return out
}

func anchorTagIndicators(base StreamEvent, ev *yamlh.Event) []StreamEvent {
	var out []StreamEvent
	if len(ev.Anchor) > 0 {
		out = append(out, indicatorEvent(base, '&'))
	}
	if len(ev.Tag) > 0 {
		out = append(out, indicatorEvent(base, '!'))
	}
	return out
}

func indicatorEvent(base StreamEvent, b byte) StreamEvent {
	e := withType(base, EvIndicator)
	e.Indicator = b
	return e
}

func withType(base StreamEvent, t StreamEventType) StreamEvent {
	base.Type = t
	return base
}
