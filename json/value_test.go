package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
)

func TestValuePutUpsertsInPlace(t *testing.T) {
	v := json.NewObject()
	v.Put("a", json.NewInt(1))
	v.Put("b", json.NewInt(2))
	v.Put("a", json.NewInt(9))
	require.Equal(t, []string{"a", "b"}, v.Keys())
	require.Equal(t, int64(9), v.Get("a").Num.Int)
}

func TestValueDeleteRemovesMember(t *testing.T) {
	v := json.NewObject()
	v.Put("a", json.NewInt(1))
	v.Put("b", json.NewInt(2))
	v.Delete("a")
	require.Equal(t, []string{"b"}, v.Keys())
	require.Nil(t, v.Get("a"))
}

func TestValuePushAppendsToArray(t *testing.T) {
	v := json.NewArray()
	v.Push(json.NewInt(1))
	v.Push(json.NewInt(2))
	require.Equal(t, 2, v.Len())
}

func TestValueKeysAndLenOnNonObject(t *testing.T) {
	v := json.NewString("x")
	require.Nil(t, v.Keys())
	require.Equal(t, 0, v.Len())
}

func TestValueCloneIsIndependent(t *testing.T) {
	v := json.NewObject()
	v.Put("a", json.NewArray())
	v.Get("a").Push(json.NewInt(1))

	clone := json.Clone(v)
	clone.Get("a").Push(json.NewInt(2))

	require.Equal(t, 1, v.Get("a").Len())
	require.Equal(t, 2, clone.Get("a").Len())
}

func TestValueEqualFallsBackToNumericWhenLexemesDiffer(t *testing.T) {
	a, err := json.Parse([]byte("1.0"), json.DefaultParseOptions())
	require.NoError(t, err)
	b, err := json.Parse([]byte("1.00"), json.DefaultParseOptions())
	require.NoError(t, err)
	// different lexemes, same double value once both sides compute one.
	require.True(t, json.Equal(a, b))

	opts := json.DefaultParseOptions()
	opts.ComputeDouble = false
	opts.ComputeInt = false
	opts.ComputeUint = false
	c, err := json.Parse([]byte("1.0"), opts)
	require.NoError(t, err)
	d, err := json.Parse([]byte("1.00"), opts)
	require.NoError(t, err)
	// with no derived representation computed on either side, only the
	// lexeme fast-path is available, and the lexemes differ.
	require.False(t, json.Equal(c, d))
}

func TestValueEqualNullHandling(t *testing.T) {
	require.True(t, json.Equal(json.NewNull(), json.NewNull()))
	require.False(t, json.Equal(json.NewNull(), json.NewInt(0)))
	var nilVal *json.Value
	require.True(t, json.Equal(nilVal, json.NewNull()))
}
