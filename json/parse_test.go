package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		typ  json.ValueType
	}{
		{"null", "null", json.NullValue},
		{"true", "true", json.BoolValue},
		{"false", "false", json.BoolValue},
		{"int", "42", json.NumberValue},
		{"float", "3.14", json.NumberValue},
		{"string", `"hi"`, json.StringValue},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := json.Parse([]byte(c.src), json.DefaultParseOptions())
			require.NoError(t, err)
			require.Equal(t, c.typ, v.Type)
		})
	}
}

func TestParseNumberPreservesLexeme(t *testing.T) {
	v, err := json.Parse([]byte("1.50"), json.DefaultParseOptions())
	require.NoError(t, err)
	require.Equal(t, "1.50", v.Num.Lexeme)
	require.True(t, v.Num.HasDouble)
	require.Equal(t, 1.5, v.Num.Double)
}

func TestParseObjectPreservesOrder(t *testing.T) {
	v, err := json.Parse([]byte(`{"b":1,"a":2}`), json.DefaultParseOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, v.Keys())
}

func TestParseArray(t *testing.T) {
	v, err := json.Parse([]byte(`[1,2,3]`), json.DefaultParseOptions())
	require.NoError(t, err)
	require.Equal(t, 3, v.Len())
}

func TestParseStringEscapes(t *testing.T) {
	v, err := json.Parse([]byte(`"a\nbA"`), json.DefaultParseOptions())
	require.NoError(t, err)
	require.Equal(t, "a\nbA", v.Str)
}

func TestParseSurrogatePair(t *testing.T) {
	v, err := json.Parse([]byte("\"\\ud83d\\ude00\""), json.DefaultParseOptions())
	require.NoError(t, err)
	require.Equal(t, "😀", v.Str)
}

func TestParseDupKeyErrorDefault(t *testing.T) {
	_, err := json.Parse([]byte(`{"a":1,"a":2}`), json.DefaultParseOptions())
	require.Error(t, err)
	jerr, ok := err.(*json.Error)
	require.True(t, ok)
	require.Equal(t, json.EDupKey, jerr.Code)
}

func TestParseDupKeyLastWins(t *testing.T) {
	opts := json.DefaultParseOptions()
	opts.Dupkeys = json.DupkeyLastWins
	v, err := json.Parse([]byte(`{"a":1,"a":2}`), opts)
	require.NoError(t, err)
	require.Equal(t, int64(2), v.Get("a").Num.Int)
}

func TestParseTrailingCommaRejectedByDefault(t *testing.T) {
	_, err := json.Parse([]byte(`[1,2,]`), json.DefaultParseOptions())
	require.Error(t, err)
}

func TestParseTrailingCommaAllowed(t *testing.T) {
	opts := json.DefaultParseOptions()
	opts.AllowTrailingCommas = true
	v, err := json.Parse([]byte(`[1,2,]`), opts)
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())
}

func TestParseCommentsAllowed(t *testing.T) {
	opts := json.DefaultParseOptions()
	opts.AllowComments = true
	v, err := json.Parse([]byte("// hi\n{\"a\":1} // trailing\n"), opts)
	require.NoError(t, err)
	require.Equal(t, int64(1), v.Get("a").Num.Int)
}

func TestParseMaxDepthLimit(t *testing.T) {
	opts := json.DefaultParseOptions()
	opts.MaxDepth = 2
	_, err := json.Parse([]byte(`[[[1]]]`), opts)
	require.Error(t, err)
	jerr, ok := err.(*json.Error)
	require.True(t, ok)
	require.Equal(t, json.EDepth, jerr.Code)
}

func TestParseTrailingGarbageErrors(t *testing.T) {
	_, err := json.Parse([]byte(`1 2`), json.DefaultParseOptions())
	require.Error(t, err)
}
