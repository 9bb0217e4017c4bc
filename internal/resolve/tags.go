package resolve

import "strings"

// HandleTable holds the tag-handle bindings active for a document, rebound
// by %TAG directives per spec §4.5. The zero value is not usable; use
// NewHandleTable.
type HandleTable struct {
	handles map[string]string
}

// NewHandleTable returns a table seeded with the default handles
// (`!` -> `!`, `!!` -> `tag:yaml.org,2002:`).
func NewHandleTable() *HandleTable {
	return &HandleTable{
		handles: map[string]string{
			"!":  "!",
			"!!": longTagPrefix,
		},
	}
}

// Bind rebinds a tag handle for the remainder of the document.
func (t *HandleTable) Bind(handle, prefix string) {
	t.handles[handle] = prefix
}

// Resolve expands a handle+suffix tag (e.g. "!!str", "!local",
// "!prefix!suffix") into a fully qualified tag using the table's bindings.
// Tags already in URI form (containing ":") pass through unchanged.
func (t *HandleTable) Resolve(handle, suffix string) string {
	prefix, ok := t.handles[handle]
	if !ok {
		// Unknown handle: treat as a local tag rather than erroring, so
		// "!whatever" with no %TAG binding still resolves to something.
		return handle + suffix
	}
	return prefix + suffix
}

// SplitTag splits a raw scanner tag token ("!!str", "!local", "!h!suffix")
// into its handle and suffix.
func SplitTag(raw string) (handle, suffix string) {
	if raw == "" || raw[0] != '!' {
		return "", raw
	}
	if strings.HasPrefix(raw, "!!") {
		return "!!", raw[2:]
	}
	// Look for a second '!' identifying a named handle "!h!suffix".
	rest := raw[1:]
	if idx := strings.IndexByte(rest, '!'); idx >= 0 {
		return raw[:idx+2], raw[idx+2:]
	}
	return "!", rest
}

// StandardTagNames lists the `!!x` short names the resolver recognizes
// explicitly, per spec §4.5.
var StandardTagNames = map[string]bool{
	"str": true, "seq": true, "map": true, "int": true, "float": true,
	"bool": true, "null": true, "binary": true, "timestamp": true,
	"set": true, "omap": true, "pairs": true, "merge": true,
}
