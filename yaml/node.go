package yaml

// NodeType tags the variant a Node holds, per spec §3.4.
type NodeType int

const (
	NullNode NodeType = iota
	BoolNode
	IntNode
	FloatNode
	StringNode
	SequenceNode
	MappingNode
	AliasNode
	SetNode
	OMapNode
	PairsNode
	BinaryNode
)

func (t NodeType) String() string {
	switch t {
	case NullNode:
		return "null"
	case BoolNode:
		return "bool"
	case IntNode:
		return "int"
	case FloatNode:
		return "float"
	case StringNode:
		return "string"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	case AliasNode:
		return "alias"
	case SetNode:
		return "set"
	case OMapNode:
		return "omap"
	case PairsNode:
		return "pairs"
	case BinaryNode:
		return "binary"
	}
	return "unknown"
}

// ScalarStyle is the preferred/observed quoting style of a scalar node.
type ScalarStyle int8

const (
	AutoScalarStyle ScalarStyle = iota
	PlainStyle
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
)

// FlowStyle is the preferred/observed collection style of a sequence or
// mapping node.
type FlowStyle int8

const (
	AutoFlowStyle FlowStyle = iota
	BlockStyle
	FlowStyleFlow
)

// Pair is one (key, value) entry of a mapping, omap, or pairs node. The key
// is itself a Node, permitting non-string keys outside CONFIG mode.
type Pair struct {
	Key   *Node
	Value *Node
}

// Node is one node of a YAML document tree (spec §3.4). Every node carries
// an optional anchor, an optional resolved tag, a style hint, an optional
// comment set, and a source position. Nodes are ordinary Go values owned by
// their Document; field byte slices produced by the CSV engine instead come
// from internal/arena, which batches its much higher per-field allocation
// volume.
type Node struct {
	Type NodeType

	Anchor      string
	Tag         string
	ScalarStyle ScalarStyle
	FlowStyle   FlowStyle

	// Scalar payload. Value holds the verbatim or canonicalized string form
	// for every scalar kind (including numbers, for round-trip fidelity);
	// the typed fields are populated when the kind matches.
	Value  string
	Bool   bool
	Int    int64
	Uint   uint64
	IsUint bool
	Float  float64
	Binary []byte

	Sequence []*Node
	Mapping  []Pair

	// Alias holds the resolved target for an AliasNode; AliasName is the
	// anchor name referenced, kept even if Alias is nil (e.g. mid-parse).
	Alias     *Node
	AliasName string

	HeadComment string
	LineComment string
	FootComment string

	Offset int
	Line   int
	Column int
}

// IsScalar reports whether the node holds a scalar value (including
// binary, which is a scalar payload with a special tag).
func (n *Node) IsScalar() bool {
	switch n.Type {
	case NullNode, BoolNode, IntNode, FloatNode, StringNode, BinaryNode:
		return true
	}
	return false
}

// Target follows alias indirection, returning n itself for non-alias
// nodes, per spec §3.4 "alias_target resolves alias->target; non-alias
// nodes return themselves."
func (n *Node) Target() *Node {
	if n == nil {
		return nil
	}
	if n.Type == AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

// Get returns the value associated with key in a mapping node, or nil if
// not found or n is not a mapping.
func (n *Node) Get(key string) *Node {
	if n == nil || (n.Type != MappingNode && n.Type != SetNode && n.Type != OMapNode && n.Type != PairsNode) {
		return nil
	}
	for _, p := range n.Mapping {
		if p.Key != nil && p.Key.Type == StringNode && p.Key.Value == key {
			return p.Value
		}
	}
	return nil
}

// Keys returns the ordered list of mapping keys as strings; non-string
// keys are rendered via their Value field.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Mapping))
	for _, p := range n.Mapping {
		if p.Key != nil {
			out = append(out, p.Key.Value)
		}
	}
	return out
}

// Len returns the number of elements in a sequence or entries in a
// mapping/set/omap/pairs node, or 0 otherwise.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Type {
	case SequenceNode:
		return len(n.Sequence)
	case MappingNode, SetNode, OMapNode, PairsNode:
		return len(n.Mapping)
	}
	return 0
}

// nodeCount returns the number of nodes rooted at n, not following alias
// edges (used for anchor expansion-budget accounting).
func nodeCount(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Sequence {
		total += nodeCount(c)
	}
	for _, p := range n.Mapping {
		total += nodeCount(p.Key) + nodeCount(p.Value)
	}
	return total
}
