package yaml

import (
	"fmt"
	"io"
	"strings"

	"github.com/willabides/texty/internal/resolve"
	"github.com/willabides/texty/internal/parserc"
	"github.com/willabides/texty/internal/yamlh"
)

// Decode parses the first document of r into a Document, per spec §3.4 /
// §4.5. Use ParseAll to consume a multi-document stream.
func Decode(r io.Reader, opts ParseOptions) (*Document, error) {
	docs, err := decodeStream(r, opts, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return &Document{}, nil
	}
	return docs[0], nil
}

// ParseAll parses every document in a `---`/`...`-delimited stream.
func ParseAll(r io.Reader, opts ParseOptions) ([]*Document, error) {
	return decodeStream(r, opts, 0)
}

// limit of 0 means "all documents"; 1 means "stop after the first".
func decodeStream(r io.Reader, opts ParseOptions, limit int) ([]*Document, error) {
	p := parserc.New(&limitedReader{r: r, remaining: opts.maxTotalBytes()})
	b := &builder{
		opts:    opts,
		handles: resolve.NewHandleTable(),
		schema:  opts.Schema,
	}
	if opts.Yaml11 {
		b.schema = resolve.Schema11
	} else if b.schema == resolve.SchemaFailsafe {
		// Zero value of Schema is SchemaFailsafe; treat an unset Schema
		// field as the library default instead.
		b.schema = resolve.SchemaCore
	}

	var docs []*Document
	for {
		ev, err := parserc.Parse(p)
		if err != nil {
			return docs, b.wrapErr(err)
		}
		switch ev.Type {
		case yamlh.STREAM_START_EVENT:
			continue
		case yamlh.STREAM_END_EVENT:
			return docs, nil
		case yamlh.DOCUMENT_START_EVENT:
			doc, derr := b.readDocument(p, ev)
			if derr != nil {
				return docs, derr
			}
			docs = append(docs, doc)
			if limit > 0 && len(docs) >= limit {
				return docs, nil
			}
		default:
			return docs, b.errorf(EInvalid, ev, "unexpected event %s at stream level", ev.Type)
		}
	}
}

// builder consumes the parserc/yamlh event stream for one document and
// assembles the Node tree, resolving tags, tracking anchors, and enforcing
// limits per spec §4.5.
type builder struct {
	opts    ParseOptions
	handles *resolve.HandleTable
	schema  resolve.Schema

	doc       *Document
	depth     int
	expansion *resolve.ExpansionTracker
}

func (b *builder) readDocument(p *parserc.YamlParser, start *yamlh.Event) (*Document, error) {
	doc := &Document{
		Anchors: map[string]*Node{},
	}
	if start.Version_directive != nil {
		doc.VersionMajor = start.Version_directive.Major
		doc.VersionMinor = start.Version_directive.Minor
		if start.Version_directive.Major == 1 && start.Version_directive.Minor == 1 {
			b.schema = resolve.Schema11
		}
	}
	if len(start.Tag_directives) > 0 {
		doc.TagDirectives = map[string]string{}
		for _, td := range start.Tag_directives {
			doc.TagDirectives[string(td.Handle)] = string(td.Prefix)
			b.handles.Bind(string(td.Handle), string(td.Prefix))
		}
	}
	b.doc = doc
	b.expansion = resolve.NewExpansionTracker()
	b.depth = 0

	root, err := b.readNode(p)
	if err != nil {
		return doc, err
	}
	doc.Root = root

	end, err := parserc.Parse(p)
	if err != nil {
		return doc, b.wrapErr(err)
	}
	if end.Type != yamlh.DOCUMENT_END_EVENT {
		return doc, b.errorf(EInvalid, end, "expected document end, got %s", end.Type)
	}
	return doc, nil
}

// readNode consumes one node's worth of events (a scalar, an alias, or a
// full collection including its END event) and returns the built Node.
func (b *builder) readNode(p *parserc.YamlParser) (*Node, error) {
	ev, err := parserc.Parse(p)
	if err != nil {
		return nil, b.wrapErr(err)
	}
	return b.buildNode(p, ev)
}

func (b *builder) buildNode(p *parserc.YamlParser, ev *yamlh.Event) (*Node, error) {
	b.depth++
	defer func() { b.depth-- }()
	if b.depth > b.opts.maxDepth() {
		return nil, b.errorf(EDepth, ev, "nesting exceeds max depth of %d", b.opts.maxDepth())
	}

	switch ev.Type {
	case yamlh.ALIAS_EVENT:
		return b.buildAlias(ev)
	case yamlh.SCALAR_EVENT:
		return b.buildScalar(ev)
	case yamlh.SEQUENCE_START_EVENT:
		return b.buildSequence(p, ev)
	case yamlh.MAPPING_START_EVENT:
		return b.buildMapping(p, ev)
	default:
		return nil, b.errorf(EInvalid, ev, "unexpected event %s while reading a node", ev.Type)
	}
}

func (b *builder) buildAlias(ev *yamlh.Event) (*Node, error) {
	name := string(ev.Anchor)
	target, ok := b.doc.Anchors[name]
	if !ok {
		return nil, b.errorf(EInvalid, ev, "unknown anchor %q", name)
	}
	if b.opts.maxAliasExpansion() > 0 {
		if err := b.expansion.ApplyAlias(name, b.opts.maxAliasExpansion()); err != nil {
			return nil, b.errorf(ELimit, ev, "%s", err)
		}
	}
	return &Node{
		Type:      AliasNode,
		AliasName: name,
		Alias:     target,
		Offset:    ev.Start_mark.Index,
		Line:      ev.Start_mark.Line + 1,
		Column:    ev.Start_mark.Column + 1,
	}, nil
}

func (b *builder) buildScalar(ev *yamlh.Event) (*Node, error) {
	n := b.newNode(ev)
	tag := b.resolveTagHandle(string(ev.Tag))
	value := string(ev.Value)

	style := scalarStyleOf(ev.Scalar_style())
	implicit := ev.Implicit
	if style != PlainStyle {
		implicit = ev.Quoted_implicit
	}
	if err := b.applyScalar(n, tag, value, implicit, style); err != nil {
		if b.opts.PartialParse {
			b.doc.Errors = append(b.doc.Errors, b.errorf(ESchema, ev, "%s", err))
			n.Type = StringNode
			n.Value = value
			n.Tag = resolve.LongTag(resolve.StrTag)
		} else {
			return nil, b.errorf(ESchema, ev, "%s", err)
		}
	}
	b.bindAnchor(ev, n)
	b.registerAnchor(ev, n)
	return n, nil
}

// applyScalar resolves an explicit or implicit tag for a plain/quoted
// scalar and populates n's typed fields accordingly. implicit reports
// whether the scanner considered the tag optional for this scalar's style.
func (b *builder) applyScalar(n *Node, tag, value string, implicit bool, style ScalarStyle) error {
	if h, ok := b.customTagFor(tag); ok {
		rtag, v, err := h.Construct(tag, value)
		if err != nil {
			return err
		}
		return b.populateFromResolved(n, rtag, v, value)
	}

	explicit := tag != "" && !implicit
	if explicit {
		switch tag {
		case resolve.LongTag(resolve.BinaryTag):
			raw, err := resolve.DecodeBinary(value)
			if err != nil {
				return fmt.Errorf("invalid !!binary scalar: %w", err)
			}
			n.Type = BinaryNode
			n.Binary = raw
			n.Value = value
			n.Tag = tag
			return nil
		case resolve.LongTag(resolve.StrTag):
			n.Type = StringNode
			n.Value = value
			n.Tag = tag
			return nil
		}
		short := resolve.ShortTag(tag)
		rtag, v, err := resolve.Resolve(short, value)
		if err != nil {
			return err
		}
		return b.populateFromResolved(n, resolve.LongTag(rtag), v, value)
	}

	if style != PlainStyle {
		n.Type = StringNode
		n.Value = value
		n.Tag = resolve.LongTag(resolve.StrTag)
		return nil
	}
	if !b.opts.ResolveTags {
		n.Type = StringNode
		n.Value = value
		n.Tag = resolve.LongTag(resolve.StrTag)
		return nil
	}

	rtag, v, err := resolve.ResolveWithSchema(b.schema, "", value)
	if err != nil {
		return err
	}
	return b.populateFromResolved(n, resolve.LongTag(rtag), v, value)
}

func (b *builder) customTagFor(tag string) (resolve.TagHandler, bool) {
	if b.opts.CustomTags == nil || tag == "" {
		return resolve.TagHandler{}, false
	}
	return b.opts.CustomTags.Lookup(tag)
}

func (b *builder) populateFromResolved(n *Node, longTag string, v interface{}, lexeme string) error {
	n.Value = lexeme
	n.Tag = longTag
	switch val := v.(type) {
	case nil:
		n.Type = NullNode
	case bool:
		n.Type = BoolNode
		n.Bool = val
	case int:
		n.Type = IntNode
		n.Int = int64(val)
	case int64:
		n.Type = IntNode
		n.Int = val
	case uint64:
		n.Type = IntNode
		n.Uint = val
		n.IsUint = true
	case float64:
		n.Type = FloatNode
		n.Float = val
	default:
		n.Type = StringNode
	}
	if longTag == resolve.LongTag(resolve.TimestampTag) {
		norm, _, ok := resolve.NormalizeTimestamp(lexeme)
		if ok {
			n.Type = StringNode
			n.Value = norm
		}
	}
	return nil
}

func (b *builder) buildSequence(p *parserc.YamlParser, ev *yamlh.Event) (*Node, error) {
	n := b.newNode(ev)
	tag := b.resolveCollectionTag(string(ev.Tag), resolve.LongTag(resolve.SeqTag))
	n.Type = SequenceNode
	n.Tag = tag
	n.FlowStyle = seqFlowStyleOf(ev.Sequence_style())
	b.bindAnchor(ev, n)

	for {
		child, err := parserc.Parse(p)
		if err != nil {
			return nil, b.wrapErr(err)
		}
		if child.Type == yamlh.SEQUENCE_END_EVENT {
			break
		}
		node, err := b.buildNode(p, child)
		if err != nil {
			return nil, err
		}
		n.Sequence = append(n.Sequence, node)
	}
	// Registered after the sequence is fully populated, so a budget charge
	// against this anchor reflects its real subtree size (spec §4.5).
	b.registerAnchor(ev, n)
	return n, nil
}

func (b *builder) buildMapping(p *parserc.YamlParser, ev *yamlh.Event) (*Node, error) {
	n := b.newNode(ev)
	tag := b.resolveCollectionTag(string(ev.Tag), resolve.LongTag(resolve.MapTag))
	n.Type = MappingNode
	n.Tag = tag
	n.FlowStyle = mapFlowStyleOf(ev.Mapping_style())
	b.bindAnchor(ev, n)

	seen := map[string]int{}
	merged := map[string]bool{}
	for {
		keyEv, err := parserc.Parse(p)
		if err != nil {
			return nil, b.wrapErr(err)
		}
		if keyEv.Type == yamlh.MAPPING_END_EVENT {
			break
		}
		key, err := b.buildNode(p, keyEv)
		if err != nil {
			return nil, err
		}
		if b.opts.ConfigMode && key.Type != StringNode {
			return nil, b.errorf(EInvalid, keyEv, "mapping key must be a string")
		}
		value, err := b.readNode(p)
		if err != nil {
			return nil, err
		}

		if key.Type == StringNode && key.Value == "<<" {
			start := len(n.Mapping)
			if err := b.mergeInto(n, value, &seen); err != nil {
				return nil, err
			}
			for _, p := range n.Mapping[start:] {
				if p.Key.IsScalar() {
					merged[p.Key.Value] = true
				}
			}
			continue
		}

		if key.IsScalar() {
			if idx, dup := seen[key.Value]; dup {
				if merged[key.Value] {
					// An explicit key overrides a merged one in place.
					delete(merged, key.Value)
					n.Mapping[idx] = Pair{Key: key, Value: value}
					continue
				}
				if err := b.handleDupKey(n, idx, key, value); err != nil {
					if !b.opts.PartialParse {
						return nil, err
					}
					b.doc.Errors = append(b.doc.Errors, err.(*Error))
				}
				continue
			}
			seen[key.Value] = len(n.Mapping)
		}
		n.Mapping = append(n.Mapping, Pair{Key: key, Value: value})
	}
	// Charged against the expansion budget only now that n.Mapping holds
	// every entry, so the size reflects the real subtree (spec §4.5).
	b.registerAnchor(ev, n)
	return n, nil
}

func (b *builder) handleDupKey(n *Node, idx int, key, value *Node) error {
	switch b.opts.Dupkeys {
	case DupkeyFirstWins:
		return nil
	case DupkeyLastWins:
		n.Mapping[idx].Value = value
		return nil
	default:
		return &Error{Code: EDupKey, Message: fmt.Sprintf("duplicate mapping key %q", key.Value), Line: key.Line, Col: key.Column}
	}
}

// mergeInto implements the `<<` merge-key extension: the referenced
// mapping's (or sequence-of-mappings') entries are spliced in first,
// yielding to keys already present, per the merge-key convention.
func (b *builder) mergeInto(n *Node, src *Node, seen *map[string]int) error {
	var sources []*Node
	t := src.Target()
	if t.Type == SequenceNode {
		sources = t.Sequence
	} else {
		sources = []*Node{t}
	}
	for _, s := range sources {
		t := s.Target()
		if t.Type != MappingNode {
			return &Error{Code: EInvalid, Message: "merge key value must be a mapping or sequence of mappings"}
		}
		for _, p := range t.Mapping {
			if p.Key.IsScalar() {
				if _, dup := (*seen)[p.Key.Value]; dup {
					continue
				}
				(*seen)[p.Key.Value] = len(n.Mapping)
			}
			n.Mapping = append(n.Mapping, p)
		}
	}
	return nil
}

func (b *builder) resolveTagHandle(raw string) string {
	if raw == "" {
		return ""
	}
	if resolve.StandardTagNames[trimBang(raw)] {
		return resolve.LongTag("!!" + trimBang(raw))
	}
	handle, suffix := resolve.SplitTag(raw)
	if handle == "" {
		return raw
	}
	return b.handles.Resolve(handle, suffix)
}

func (b *builder) resolveCollectionTag(raw, def string) string {
	if raw == "" {
		return def
	}
	return b.resolveTagHandle(raw)
}

func trimBang(s string) string {
	for len(s) > 0 && s[0] == '!' {
		s = s[1:]
	}
	return s
}

// bindAnchor binds an anchor name to its node as soon as the node exists,
// before any children are read, so an alias nested inside the same
// subtree (or a later sibling that aliases it) resolves to the right
// pointer while it is still being built.
func (b *builder) bindAnchor(ev *yamlh.Event, n *Node) {
	name := string(ev.Anchor)
	if name == "" {
		return
	}
	n.Anchor = name
	b.doc.Anchors[name] = n
}

// registerAnchor charges the anchor's node count against the expansion
// budget. Callers must invoke it only once n's subtree (Sequence/Mapping)
// is fully populated, since nodeCount walks exactly what's there at the
// time of the call; calling it any earlier would always charge a bare
// sequence/mapping as size 1, defeating the budget spec §4.5 describes.
func (b *builder) registerAnchor(ev *yamlh.Event, n *Node) {
	name := string(ev.Anchor)
	if name == "" {
		return
	}
	b.expansion.RegisterAnchorWithRefs(name, nodeCount(n), collectAliasRefs(n))
}

// collectAliasRefs walks n's own subtree (not following through alias
// targets) and returns the name of every anchor it aliases, so the
// expansion tracker's transitive DFS has the edges it needs to account
// for nested or cyclic anchor definitions (spec §4.5).
func collectAliasRefs(n *Node) []string {
	var refs []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Type == AliasNode {
			refs = append(refs, n.AliasName)
			return
		}
		for _, c := range n.Sequence {
			walk(c)
		}
		for _, p := range n.Mapping {
			walk(p.Key)
			walk(p.Value)
		}
	}
	walk(n)
	return refs
}

func (b *builder) newNode(ev *yamlh.Event) *Node {
	n := &Node{
		Offset: ev.Start_mark.Index,
		Line:   ev.Start_mark.Line + 1,
		Column: ev.Start_mark.Column + 1,
	}
	if b.opts.RetainComments {
		n.HeadComment = string(ev.Head_comment)
		n.LineComment = string(ev.Line_comment)
		n.FootComment = string(ev.Foot_comment)
	}
	return n
}

func scalarStyleOf(s yamlh.YamlScalarStyle) ScalarStyle {
	switch s {
	case yamlh.PLAIN_SCALAR_STYLE:
		return PlainStyle
	case yamlh.SINGLE_QUOTED_SCALAR_STYLE:
		return SingleQuotedStyle
	case yamlh.DOUBLE_QUOTED_SCALAR_STYLE:
		return DoubleQuotedStyle
	case yamlh.LITERAL_SCALAR_STYLE:
		return LiteralStyle
	case yamlh.FOLDED_SCALAR_STYLE:
		return FoldedStyle
	}
	return AutoScalarStyle
}

func seqFlowStyleOf(s yamlh.YamlSequenceStyle) FlowStyle {
	if s == yamlh.FLOW_SEQUENCE_STYLE {
		return FlowStyleFlow
	}
	return BlockStyle
}

func mapFlowStyleOf(s yamlh.YamlMappingStyle) FlowStyle {
	if s == yamlh.FLOW_MAPPING_STYLE {
		return FlowStyleFlow
	}
	return BlockStyle
}

func (b *builder) errorf(code Status, ev *yamlh.Event, format string, args ...interface{}) *Error {
	e := newError(code, fmt.Sprintf(format, args...), 0, 0, 0)
	if ev != nil {
		e.Offset = ev.Start_mark.Index
		e.Line = ev.Start_mark.Line + 1
		e.Col = ev.Start_mark.Column + 1
	}
	return e
}

func (b *builder) wrapErr(err error) *Error {
	code := EInvalid
	if strings.Contains(err.Error(), "exceeds max_total_bytes") {
		code = ELimit
	}
	return &Error{Code: code, Message: err.Error()}
}

// limitedReader aborts with an error rather than silently truncating once
// ParseOptions.MaxTotalBytes is exceeded, so an oversized stream surfaces
// as a LIMIT status instead of a misleading parse error mid-document.
type limitedReader struct {
	r         io.Reader
	remaining int
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		if n, err := l.r.Read(probe[:]); n == 0 && err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("yaml: input exceeds max_total_bytes limit")
	}
	if len(p) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= n
	return n, err
}
