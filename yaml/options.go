package yaml

import "github.com/willabides/texty/internal/resolve"

// DupkeyMode controls how the DOM builder resolves duplicate mapping keys.
type DupkeyMode int

const (
	DupkeyError DupkeyMode = iota
	DupkeyFirstWins
	DupkeyLastWins
)

// ParseOptions controls parsing behavior and limits, per spec §4.5 and the
// original_source yaml_core.h defaults.
type ParseOptions struct {
	Dupkeys DupkeyMode

	MaxDepth          int // 0 = library default (256)
	MaxTotalBytes     int // 0 = library default (64 MiB)
	MaxAliasExpansion int // 0 = library default (10000); <0 disables the check

	ValidateUTF8  bool
	ResolveTags   bool
	RetainComments bool

	// Schema selects the implicit-typing rule set (spec §4.5). Defaults to
	// resolve.SchemaCore. A `%YAML 1.1` directive switches to Schema11
	// from that document on, whatever this field says.
	Schema resolve.Schema

	// Yaml11 forces 1.1 compatibility mode even without a directive.
	Yaml11 bool

	// ConfigMode requires mapping keys to be strings and disables any
	// JSON-compatible fast path, per spec §3.4 invariant.
	ConfigMode bool

	// PartialParse enables recoverable-error tolerance: on a recoverable
	// error, a placeholder string scalar is synthesized and parsing
	// continues; fatal errors (OOM, depth) still abort.
	PartialParse bool

	// CustomTags, when non-nil, is consulted for every explicitly tagged
	// scalar, before the built-in tags. Untagged scalars are not passed
	// to it.
	CustomTags *resolve.Registry

	// Warn is not called by Decode or ParseAll: no notices are reported
	// through it.
	Warn func(w Warning)
}

// Warning is a recoverable, non-fatal notice surfaced through
// ParseOptions.Warn.
type Warning struct {
	Message string
	Line    int
	Col     int
}

const (
	defaultMaxDepth          = 256
	defaultMaxTotalBytes     = 64 * 1024 * 1024
	defaultMaxAliasExpansion = 10000
)

// DefaultParseOptions returns parse options with library defaults: CORE
// schema, UTF-8 validation on, tag resolution on, comments off.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Dupkeys:      DupkeyError,
		ValidateUTF8: true,
		ResolveTags:  true,
		Schema:       resolve.SchemaCore,
	}
}

func (o *ParseOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return defaultMaxDepth
	}
	return o.MaxDepth
}

func (o *ParseOptions) maxTotalBytes() int {
	if o.MaxTotalBytes <= 0 {
		return defaultMaxTotalBytes
	}
	return o.MaxTotalBytes
}

func (o *ParseOptions) maxAliasExpansion() int {
	if o.MaxAliasExpansion < 0 {
		return 0
	}
	if o.MaxAliasExpansion == 0 {
		return defaultMaxAliasExpansion
	}
	return o.MaxAliasExpansion
}

// WriteOptions controls document emission, per spec §4.5.
type WriteOptions struct {
	Pretty         bool
	IndentSpaces   int
	LineWidth      int
	Newline        string
	TrailingNewline bool
	Canonical      bool
	ScalarStyle    ScalarStyle
	FlowStyle      FlowStyle

	// Encoding names UTF-8 (default), UTF-16LE, or UTF-16BE output.
	// Encoder reads neither Encoding nor EmitBOM: its output is always
	// UTF-8 with no BOM.
	Encoding OutputEncoding
	EmitBOM  bool
}

// OutputEncoding selects the writer's output byte encoding.
type OutputEncoding int

const (
	OutputUTF8 OutputEncoding = iota
	OutputUTF16LE
	OutputUTF16BE
)

// DefaultWriteOptions returns write options matching the library's
// pretty-block-style default.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Pretty:       true,
		IndentSpaces: 2,
		LineWidth:    80,
		Newline:      "\n",
	}
}
