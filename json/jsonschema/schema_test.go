package jsonschema_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
	"github.com/willabides/texty/json/jsonschema"
)

func compile(t *testing.T, src string) *jsonschema.Schema {
	t.Helper()
	doc, err := json.Parse([]byte(src), json.DefaultParseOptions())
	require.NoError(t, err)
	s, err := jsonschema.Compile(doc)
	require.NoError(t, err)
	return s
}

func parseVal(t *testing.T, src string) *json.Value {
	t.Helper()
	v, err := json.Parse([]byte(src), json.DefaultParseOptions())
	require.NoError(t, err)
	return v
}

func TestValidateType(t *testing.T) {
	s := compile(t, `{"type":"string"}`)
	require.NoError(t, s.Validate(parseVal(t, `"x"`)))
	require.Error(t, s.Validate(parseVal(t, `1`)))
}

func TestValidateRequiredProperties(t *testing.T) {
	s := compile(t, `{"type":"object","required":["a","b"]}`)
	require.NoError(t, s.Validate(parseVal(t, `{"a":1,"b":2}`)))
	err := s.Validate(parseVal(t, `{"a":1}`))
	require.Error(t, err)
	jerr := err.(*json.Error)
	require.Equal(t, json.ESchema, jerr.Code)
}

func TestValidateNestedProperties(t *testing.T) {
	s := compile(t, `{"type":"object","properties":{"n":{"type":"number","minimum":0}}}`)
	require.NoError(t, s.Validate(parseVal(t, `{"n":5}`)))
	require.Error(t, s.Validate(parseVal(t, `{"n":-1}`)))
}

func TestValidateItems(t *testing.T) {
	s := compile(t, `{"type":"array","items":{"type":"number"}}`)
	require.NoError(t, s.Validate(parseVal(t, `[1,2,3]`)))
	require.Error(t, s.Validate(parseVal(t, `[1,"x"]`)))
}

func TestValidateEnumAndConst(t *testing.T) {
	s := compile(t, `{"enum":[1,2,3]}`)
	require.NoError(t, s.Validate(parseVal(t, `2`)))
	require.Error(t, s.Validate(parseVal(t, `4`)))

	cs := compile(t, `{"const":"x"}`)
	require.NoError(t, cs.Validate(parseVal(t, `"x"`)))
	require.Error(t, cs.Validate(parseVal(t, `"y"`)))
}

func TestValidateStringLength(t *testing.T) {
	s := compile(t, `{"minLength":2,"maxLength":4}`)
	require.NoError(t, s.Validate(parseVal(t, `"abc"`)))
	require.Error(t, s.Validate(parseVal(t, `"a"`)))
	require.Error(t, s.Validate(parseVal(t, `"abcde"`)))
}

func TestValidateArrayItemCounts(t *testing.T) {
	s := compile(t, `{"minItems":1,"maxItems":2}`)
	require.NoError(t, s.Validate(parseVal(t, `[1]`)))
	require.Error(t, s.Validate(parseVal(t, `[]`)))
	require.Error(t, s.Validate(parseVal(t, `[1,2,3]`)))
}
