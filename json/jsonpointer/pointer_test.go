package jsonpointer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
	"github.com/willabides/texty/json/jsonpointer"
)

func doc(t *testing.T) *json.Value {
	t.Helper()
	v, err := json.Parse([]byte(`{"a":{"b":[1,2,3]},"c~d":1,"e/f":2}`), json.DefaultParseOptions())
	require.NoError(t, err)
	return v
}

func TestGetNestedObject(t *testing.T) {
	v, err := jsonpointer.Get(doc(t), "/a/b/1")
	require.NoError(t, err)
	require.Equal(t, int64(2), v.Num.Int)
}

func TestGetEmptyPointerReturnsRoot(t *testing.T) {
	v, err := jsonpointer.Get(doc(t), "")
	require.NoError(t, err)
	require.Equal(t, json.ObjectValue, v.Type)
}

func TestGetEscapedTokens(t *testing.T) {
	v, err := jsonpointer.Get(doc(t), "/c~0d")
	require.NoError(t, err)
	require.Equal(t, int64(1), v.Num.Int)

	v2, err := jsonpointer.Get(doc(t), "/e~1f")
	require.NoError(t, err)
	require.Equal(t, int64(2), v2.Num.Int)
}

func TestGetNotFound(t *testing.T) {
	_, err := jsonpointer.Get(doc(t), "/a/missing")
	require.Error(t, err)
}

func TestGetOutOfRangeArrayIndex(t *testing.T) {
	_, err := jsonpointer.Get(doc(t), "/a/b/99")
	require.Error(t, err)
}

func TestGetRejectsLeadingZeroIndex(t *testing.T) {
	_, err := jsonpointer.Get(doc(t), "/a/b/01")
	require.Error(t, err)
}
