package yaml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/yaml"
)

func roundTrip(t *testing.T, src string) (*yaml.Document, string) {
	t.Helper()
	doc, err := yaml.Decode(strings.NewReader(src), yaml.DefaultParseOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, yaml.EncodeDocument(&buf, doc, yaml.DefaultWriteOptions()))
	return doc, buf.String()
}

func TestEncodeScalarRoundTrip(t *testing.T) {
	_, out := roundTrip(t, "42\n")
	require.Contains(t, out, "42")
}

func TestEncodeMappingRoundTrip(t *testing.T) {
	_, out := roundTrip(t, "a: 1\nb: 2\n")
	require.Contains(t, out, "a:")
	require.Contains(t, out, "b:")
}

func TestEncodeSequenceRoundTrip(t *testing.T) {
	_, out := roundTrip(t, "- x\n- y\n")
	require.Contains(t, out, "- x")
	require.Contains(t, out, "- y")
}

func TestEncodeAnchorOnlyEmittedWhenReferenced(t *testing.T) {
	doc, err := yaml.Decode(strings.NewReader("a: &x 1\nb: 2\n"), yaml.DefaultParseOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, yaml.EncodeDocument(&buf, doc, yaml.DefaultWriteOptions()))
	require.NotContains(t, buf.String(), "&x")
}

func TestEncodeAnchorEmittedWhenAliased(t *testing.T) {
	doc, err := yaml.Decode(strings.NewReader("a: &x 1\nb: *x\n"), yaml.DefaultParseOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, yaml.EncodeDocument(&buf, doc, yaml.DefaultWriteOptions()))
	out := buf.String()
	require.Contains(t, out, "&x")
	require.Contains(t, out, "*x")
}

func TestEncodeBinaryNode(t *testing.T) {
	doc, err := yaml.Decode(strings.NewReader("!!binary SGVsbG8=\n"), yaml.DefaultParseOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, yaml.EncodeDocument(&buf, doc, yaml.DefaultWriteOptions()))
	require.Contains(t, buf.String(), "!!binary")
}

func TestEncodeFlowStylePreserved(t *testing.T) {
	_, out := roundTrip(t, "{a: 1, b: 2}\n")
	require.Contains(t, out, "{")
}

func TestEncodeMultiDocumentStream(t *testing.T) {
	docs, err := yaml.ParseAll(strings.NewReader("a\n---\nb\n"), yaml.DefaultParseOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf, yaml.DefaultWriteOptions())
	for _, d := range docs {
		require.NoError(t, enc.Encode(d))
	}
	require.NoError(t, enc.Close())
	require.Contains(t, buf.String(), "---")
}
