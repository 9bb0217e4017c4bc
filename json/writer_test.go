package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
)

func marshal(t *testing.T, v *json.Value, opts json.WriteOptions) string {
	t.Helper()
	b, err := json.Marshal(v, opts)
	require.NoError(t, err)
	return string(b)
}

func TestWriteCompactObject(t *testing.T) {
	v := json.NewObject()
	v.Put("a", json.NewInt(1))
	v.Put("b", json.NewString("x"))
	got := marshal(t, v, json.DefaultWriteOptions())
	require.Equal(t, `{"a":1,"b":"x"}`, got)
}

func TestWriteArray(t *testing.T) {
	v := json.NewArray()
	v.Push(json.NewInt(1))
	v.Push(json.NewInt(2))
	got := marshal(t, v, json.DefaultWriteOptions())
	require.Equal(t, `[1,2]`, got)
}

func TestWriteSortsKeysWhenCanonical(t *testing.T) {
	v := json.NewObject()
	v.Put("b", json.NewInt(1))
	v.Put("a", json.NewInt(2))
	opts := json.DefaultWriteOptions()
	opts.SortObjectKeys = true
	got := marshal(t, v, opts)
	require.Equal(t, `{"a":2,"b":1}`, got)
}

func TestWriteEscapesControlCharsAndQuotes(t *testing.T) {
	v := json.NewString("a\"\n\tb")
	got := marshal(t, v, json.DefaultWriteOptions())
	require.Equal(t, `"a\"\n\tb"`, got)
}

func TestWritePreservesNumberLexemeByDefault(t *testing.T) {
	v, err := json.Parse([]byte("1.500"), json.DefaultParseOptions())
	require.NoError(t, err)
	got := marshal(t, v, json.DefaultWriteOptions())
	require.Equal(t, "1.500", got)
}

func TestWritePrettyNestsWithIndent(t *testing.T) {
	v := json.NewObject()
	v.Put("a", json.NewInt(1))
	opts := json.DefaultWriteOptions()
	opts.Pretty = true
	opts.ObjectInline = 0
	got := marshal(t, v, opts)
	require.Equal(t, "{\n  \"a\": 1\n}", got)
}

func TestWriteEmptyCollections(t *testing.T) {
	require.Equal(t, "[]", marshal(t, json.NewArray(), json.DefaultWriteOptions()))
	require.Equal(t, "{}", marshal(t, json.NewObject(), json.DefaultWriteOptions()))
}
