package yaml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/yaml"
)

func decodeString(t *testing.T, s string, opts yaml.ParseOptions) *yaml.Document {
	t.Helper()
	doc, err := yaml.Decode(strings.NewReader(s), opts)
	require.NoError(t, err)
	return doc
}

func TestDecodeScalarTypes(t *testing.T) {
	cases := []struct {
		in       string
		wantType yaml.NodeType
	}{
		{"null\n", yaml.NullNode},
		{"~\n", yaml.NullNode},
		{"true\n", yaml.BoolNode},
		{"false\n", yaml.BoolNode},
		{"42\n", yaml.IntNode},
		{"-7\n", yaml.IntNode},
		{"3.14\n", yaml.FloatNode},
		{"hello\n", yaml.StringNode},
		{"\"hello\"\n", yaml.StringNode},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			doc := decodeString(t, c.in, yaml.DefaultParseOptions())
			require.Equal(t, c.wantType, doc.Root.Type)
		})
	}
}

func TestDecodeIntValue(t *testing.T) {
	doc := decodeString(t, "42\n", yaml.DefaultParseOptions())
	require.Equal(t, int64(42), doc.Root.Int)
}

func TestDecodeSequence(t *testing.T) {
	doc := decodeString(t, "- a\n- b\n- c\n", yaml.DefaultParseOptions())
	require.Equal(t, yaml.SequenceNode, doc.Root.Type)
	require.Equal(t, 3, doc.Root.Len())
	require.Equal(t, "b", doc.Root.Sequence[1].Value)
}

func TestDecodeMapping(t *testing.T) {
	doc := decodeString(t, "a: 1\nb: 2\n", yaml.DefaultParseOptions())
	require.Equal(t, yaml.MappingNode, doc.Root.Type)
	require.Equal(t, []string{"a", "b"}, doc.Root.Keys())
	require.Equal(t, int64(2), doc.Root.Get("b").Int)
}

func TestDecodeDupKeyError(t *testing.T) {
	_, err := yaml.Decode(strings.NewReader("a: 1\na: 2\n"), yaml.DefaultParseOptions())
	require.Error(t, err)
	var yerr *yaml.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yaml.EDupKey, yerr.Code)
}

func TestDecodeDupKeyLastWins(t *testing.T) {
	opts := yaml.DefaultParseOptions()
	opts.Dupkeys = yaml.DupkeyLastWins
	doc := decodeString(t, "a: 1\na: 2\n", opts)
	require.Equal(t, int64(2), doc.Root.Get("a").Int)
	require.Equal(t, 1, doc.Root.Len())
}

func TestDecodeDupKeyFirstWins(t *testing.T) {
	opts := yaml.DefaultParseOptions()
	opts.Dupkeys = yaml.DupkeyFirstWins
	doc := decodeString(t, "a: 1\na: 2\n", opts)
	require.Equal(t, int64(1), doc.Root.Get("a").Int)
}

func TestDecodeAnchorAlias(t *testing.T) {
	doc := decodeString(t, "a: &x 1\nb: *x\n", yaml.DefaultParseOptions())
	require.Equal(t, int64(1), doc.Root.Get("b").Target().Int)
	require.Equal(t, doc.Root.Get("a"), doc.Root.Get("b").Alias)
}

func TestDecodeUnknownAliasErrors(t *testing.T) {
	_, err := yaml.Decode(strings.NewReader("a: *missing\n"), yaml.DefaultParseOptions())
	require.Error(t, err)
}

func TestDecodeMergeKey(t *testing.T) {
	src := "base: &b\n  x: 1\n  y: 2\nderived:\n  <<: *b\n  y: 3\n"
	doc := decodeString(t, src, yaml.DefaultParseOptions())
	derived := doc.Root.Get("derived")
	require.Equal(t, int64(1), derived.Get("x").Int)
	require.Equal(t, int64(3), derived.Get("y").Int)
}

func TestDecodeExplicitTag(t *testing.T) {
	doc := decodeString(t, "!!str 123\n", yaml.DefaultParseOptions())
	require.Equal(t, yaml.StringNode, doc.Root.Type)
	require.Equal(t, "123", doc.Root.Value)
}

func TestDecodeBinaryTag(t *testing.T) {
	doc := decodeString(t, "!!binary SGVsbG8=\n", yaml.DefaultParseOptions())
	require.Equal(t, yaml.BinaryNode, doc.Root.Type)
	require.Equal(t, []byte("Hello"), doc.Root.Binary)
}

func TestDecodeFlowCollections(t *testing.T) {
	doc := decodeString(t, "{a: [1, 2], b: 3}\n", yaml.DefaultParseOptions())
	require.Equal(t, yaml.FlowStyleFlow, doc.Root.FlowStyle)
	require.Equal(t, 2, doc.Root.Get("a").Len())
}

func TestDecodeSchema11Booleans(t *testing.T) {
	opts := yaml.DefaultParseOptions()
	opts.Yaml11 = true
	doc := decodeString(t, "%YAML 1.1\n---\nyes\n", opts)
	require.Equal(t, yaml.BoolNode, doc.Root.Type)
	require.True(t, doc.Root.Bool)
}

func TestDecodeCoreSchemaDoesNotTreatYesAsBool(t *testing.T) {
	doc := decodeString(t, "yes\n", yaml.DefaultParseOptions())
	require.Equal(t, yaml.StringNode, doc.Root.Type)
}

func TestDecodePartialParseCollectsErrors(t *testing.T) {
	opts := yaml.DefaultParseOptions()
	opts.PartialParse = true
	doc := decodeString(t, "a: 1\na: 2\n", opts)
	require.NotEmpty(t, doc.Errors)
}

func TestParseAllMultiDocument(t *testing.T) {
	docs, err := yaml.ParseAll(strings.NewReader("a\n---\nb\n---\nc\n"), yaml.DefaultParseOptions())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, "b", docs[1].Root.Value)
}

func TestDecodeMaxDepthLimit(t *testing.T) {
	opts := yaml.DefaultParseOptions()
	opts.MaxDepth = 2
	_, err := yaml.Decode(strings.NewReader("a:\n  b:\n    c: 1\n"), opts)
	require.Error(t, err)
	var yerr *yaml.Error
	require.ErrorAs(t, err, &yerr)
	require.Equal(t, yaml.EDepth, yerr.Code)
}
