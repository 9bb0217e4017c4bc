package yaml

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/willabides/texty/internal/emitter"
	"github.com/willabides/texty/internal/resolve"
	"github.com/willabides/texty/internal/yamlh"
)

// Encoder writes a stream of Documents as YAML text, per spec §3.4/§4.5.
type Encoder struct {
	em      *emitter.Emitter
	opts    WriteOptions
	started bool
}

// NewEncoder returns an Encoder writing to w with the given options.
func NewEncoder(w io.Writer, opts WriteOptions) *Encoder {
	em := emitter.New(w)
	if opts.IndentSpaces > 0 {
		em.SetIndent(opts.IndentSpaces)
	}
	return &Encoder{em: em, opts: opts}
}

// Encode writes one document to the stream.
func (e *Encoder) Encode(doc *Document) error {
	if !e.started {
		if err := e.em.Emit(&yamlh.Event{Type: yamlh.STREAM_START_EVENT, Encoding: yamlh.UTF8_ENCODING}, false); err != nil {
			return wrapEmitErr(err)
		}
		e.started = true
	}
	if err := e.em.Emit(&yamlh.Event{Type: yamlh.DOCUMENT_START_EVENT, Implicit: true}, false); err != nil {
		return wrapEmitErr(err)
	}
	anchored := map[*Node]bool{}
	markReferencedAnchors(doc.Root, anchored, map[*Node]bool{})
	if err := e.encodeNode(doc.Root, anchored); err != nil {
		return err
	}
	return e.em.Emit(&yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT, Implicit: true}, false)
}

// Close finishes the stream, emitting STREAM-END.
func (e *Encoder) Close() error {
	if !e.started {
		if err := e.em.Emit(&yamlh.Event{Type: yamlh.STREAM_START_EVENT, Encoding: yamlh.UTF8_ENCODING}, false); err != nil {
			return wrapEmitErr(err)
		}
	}
	return wrapEmitErr(e.em.Emit(&yamlh.Event{Type: yamlh.STREAM_END_EVENT}, true))
}

// EncodeDocument writes a single document to w using the given options; a
// convenience wrapper around NewEncoder+Encode+Close for one-shot use.
func EncodeDocument(w io.Writer, doc *Document, opts WriteOptions) error {
	enc := NewEncoder(w, opts)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// markReferencedAnchors walks the tree and records, in referenced, every
// node that is the target of at least one alias -- only those nodes emit
// an anchor, matching the convention that unreferenced anchors are noise.
func markReferencedAnchors(n *Node, referenced, visiting map[*Node]bool) {
	if n == nil || visiting[n] {
		return
	}
	switch n.Type {
	case AliasNode:
		if n.Alias != nil {
			referenced[n.Alias] = true
		}
		return
	case SequenceNode, MappingNode, SetNode, OMapNode, PairsNode:
		visiting[n] = true
		defer delete(visiting, n)
		for _, c := range n.Sequence {
			markReferencedAnchors(c, referenced, visiting)
		}
		for _, p := range n.Mapping {
			markReferencedAnchors(p.Key, referenced, visiting)
			markReferencedAnchors(p.Value, referenced, visiting)
		}
	}
}

func (e *Encoder) anchorFor(n *Node, anchored map[*Node]bool) []byte {
	if n.Anchor != "" && (anchored[n] || e.opts.Canonical) {
		return []byte(n.Anchor)
	}
	return nil
}

func (e *Encoder) encodeNode(n *Node, anchored map[*Node]bool) error {
	if n == nil {
		return e.emitScalar(nil, nil, "null", yamlh.PLAIN_SCALAR_STYLE, nil)
	}

	switch n.Type {
	case AliasNode:
		target := n.Alias
		name := n.AliasName
		if target != nil && target.Anchor != "" {
			name = target.Anchor
		}
		return wrapEmitErr(e.em.Emit(&yamlh.Event{Type: yamlh.ALIAS_EVENT, Anchor: []byte(name)}, false))

	case SequenceNode:
		style := yamlh.YamlSequenceStyle(yamlh.BLOCK_SEQUENCE_STYLE)
		if n.FlowStyle == FlowStyleFlow || e.opts.Canonical {
			style = yamlh.FLOW_SEQUENCE_STYLE
		}
		tag, implicit := e.tagFor(n, resolve.LongTag(resolve.SeqTag))
		ev := &yamlh.Event{
			Type: yamlh.SEQUENCE_START_EVENT, Anchor: e.anchorFor(n, anchored),
			Tag: []byte(tag), Implicit: implicit, Style: yamlh.YamlStyle(style),
			Head_comment: []byte(n.HeadComment),
		}
		if err := wrapEmitErr(e.em.Emit(ev, false)); err != nil {
			return err
		}
		for _, c := range n.Sequence {
			if err := e.encodeNode(c, anchored); err != nil {
				return err
			}
		}
		end := &yamlh.Event{Type: yamlh.SEQUENCE_END_EVENT, Line_comment: []byte(n.LineComment), Foot_comment: []byte(n.FootComment)}
		return wrapEmitErr(e.em.Emit(end, false))

	case MappingNode, SetNode, OMapNode, PairsNode:
		style := yamlh.YamlMappingStyle(yamlh.BLOCK_MAPPING_STYLE)
		if n.FlowStyle == FlowStyleFlow || e.opts.Canonical {
			style = yamlh.FLOW_MAPPING_STYLE
		}
		tag, implicit := e.tagFor(n, resolve.LongTag(resolve.MapTag))
		ev := &yamlh.Event{
			Type: yamlh.MAPPING_START_EVENT, Anchor: e.anchorFor(n, anchored),
			Tag: []byte(tag), Implicit: implicit, Style: yamlh.YamlStyle(style),
			Head_comment: []byte(n.HeadComment),
		}
		if err := wrapEmitErr(e.em.Emit(ev, false)); err != nil {
			return err
		}
		for _, p := range n.Mapping {
			if err := e.encodeNode(p.Key, anchored); err != nil {
				return err
			}
			if err := e.encodeNode(p.Value, anchored); err != nil {
				return err
			}
		}
		end := &yamlh.Event{Type: yamlh.MAPPING_END_EVENT, Line_comment: []byte(n.LineComment), Foot_comment: []byte(n.FootComment)}
		return wrapEmitErr(e.em.Emit(end, false))

	case BinaryNode:
		return e.emitScalar(e.anchorFor(n, anchored), []byte(resolve.LongTag(resolve.BinaryTag)), resolve.EncodeBase64(string(n.Binary)), yamlh.DOUBLE_QUOTED_SCALAR_STYLE, n)

	default:
		return e.encodeScalar(n, anchored)
	}
}

// tagFor decides whether a collection's tag must be emitted explicitly:
// only when it differs from the YAML-implied default for its kind, or
// canonical mode is requested.
func (e *Encoder) tagFor(n *Node, defaultTag string) (tag string, implicit bool) {
	if e.opts.Canonical {
		return n.Tag, false
	}
	if n.Tag == "" || n.Tag == defaultTag {
		return defaultTag, true
	}
	return n.Tag, false
}

func (e *Encoder) encodeScalar(n *Node, anchored map[*Node]bool) error {
	value := n.Value
	switch n.Type {
	case BoolNode:
		if value == "" {
			value = strconv.FormatBool(n.Bool)
		}
	case IntNode:
		if value == "" {
			if n.IsUint {
				value = strconv.FormatUint(n.Uint, 10)
			} else {
				value = strconv.FormatInt(n.Int, 10)
			}
		}
	case FloatNode:
		if value == "" {
			value = strconv.FormatFloat(n.Float, 'g', -1, 64)
		}
	case NullNode:
		if value == "" {
			value = "null"
		}
	}

	if !utf8.ValidString(value) {
		return e.emitScalar(e.anchorFor(n, anchored), []byte(resolve.LongTag(resolve.BinaryTag)), resolve.EncodeBase64(value), yamlh.DOUBLE_QUOTED_SCALAR_STYLE, n)
	}

	tag, implicit := e.scalarTagFor(n, value)
	style := e.scalarStyleFor(n, value, implicit)
	var tagBytes []byte
	if !implicit {
		tagBytes = []byte(tag)
	}
	ev := &yamlh.Event{
		Type: yamlh.SCALAR_EVENT, Anchor: e.anchorFor(n, anchored), Tag: tagBytes,
		Value: []byte(value), Implicit: implicit, Quoted_implicit: implicit,
		Style:        yamlh.YamlStyle(style),
		Head_comment: []byte(n.HeadComment), Line_comment: []byte(n.LineComment), Foot_comment: []byte(n.FootComment),
	}
	return wrapEmitErr(e.em.Emit(ev, false))
}

// scalarTagFor decides whether a scalar's tag can be left implicit: it can
// when dropping it wouldn't change how a reader would re-resolve the
// scalar's plain-style lexeme.
func (e *Encoder) scalarTagFor(n *Node, value string) (tag string, implicit bool) {
	if e.opts.Canonical && n.Tag != "" {
		return n.Tag, false
	}
	if n.Tag == "" {
		return "", true
	}
	rtag, _, err := resolve.Resolve("", value)
	if err == nil && resolve.LongTag(rtag) == n.Tag {
		return "", true
	}
	return n.Tag, false
}

func (e *Encoder) scalarStyleFor(n *Node, value string, implicit bool) yamlh.YamlScalarStyle {
	switch n.ScalarStyle {
	case SingleQuotedStyle:
		return yamlh.SINGLE_QUOTED_SCALAR_STYLE
	case DoubleQuotedStyle:
		return yamlh.DOUBLE_QUOTED_SCALAR_STYLE
	case LiteralStyle:
		return yamlh.LITERAL_SCALAR_STYLE
	case FoldedStyle:
		return yamlh.FOLDED_SCALAR_STYLE
	}
	if strings.Contains(value, "\n") {
		return yamlh.LITERAL_SCALAR_STYLE
	}
	if !implicit && n.Type == StringNode {
		return yamlh.DOUBLE_QUOTED_SCALAR_STYLE
	}
	return yamlh.PLAIN_SCALAR_STYLE
}

func (e *Encoder) emitScalar(anchor, tag []byte, value string, style yamlh.YamlScalarStyle, n *Node) error {
	implicit := len(tag) == 0
	ev := &yamlh.Event{
		Type: yamlh.SCALAR_EVENT, Anchor: anchor, Tag: tag, Value: []byte(value),
		Implicit: implicit, Quoted_implicit: implicit, Style: yamlh.YamlStyle(style),
	}
	if n != nil {
		ev.Head_comment = []byte(n.HeadComment)
		ev.Line_comment = []byte(n.LineComment)
		ev.Foot_comment = []byte(n.FootComment)
	}
	return wrapEmitErr(e.em.Emit(ev, false))
}

func wrapEmitErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: EWrite, Message: fmt.Sprintf("yaml: %s", err)}
}
