package jsonpatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
	"github.com/willabides/texty/json/jsonpatch"
)

func parse(t *testing.T, src string) *json.Value {
	t.Helper()
	v, err := json.Parse([]byte(src), json.DefaultParseOptions())
	require.NoError(t, err)
	return v
}

func TestApplyAddToObject(t *testing.T) {
	root := parse(t, `{"a":1}`)
	out, err := jsonpatch.Apply(root, []jsonpatch.Op{{Op: "add", Path: "/b", Value: json.NewInt(2)}})
	require.NoError(t, err)
	require.Equal(t, int64(2), out.Get("b").Num.Int)
	require.Equal(t, int64(1), root.Get("a").Num.Int) // original untouched
	require.Nil(t, root.Get("b"))
}

func TestApplyAddToArrayAppend(t *testing.T) {
	root := parse(t, `[1,2]`)
	out, err := jsonpatch.Apply(root, []jsonpatch.Op{{Op: "add", Path: "/-", Value: json.NewInt(3)}})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	require.Equal(t, int64(3), out.Array[2].Num.Int)
}

func TestApplyRemove(t *testing.T) {
	root := parse(t, `{"a":1,"b":2}`)
	out, err := jsonpatch.Apply(root, []jsonpatch.Op{{Op: "remove", Path: "/a"}})
	require.NoError(t, err)
	require.Nil(t, out.Get("a"))
}

func TestApplyReplace(t *testing.T) {
	root := parse(t, `{"a":1}`)
	out, err := jsonpatch.Apply(root, []jsonpatch.Op{{Op: "replace", Path: "/a", Value: json.NewInt(9)}})
	require.NoError(t, err)
	require.Equal(t, int64(9), out.Get("a").Num.Int)
}

func TestApplyMoveRejectsPrefixOfTarget(t *testing.T) {
	root := parse(t, `{"a":{"b":1}}`)
	_, err := jsonpatch.Apply(root, []jsonpatch.Op{{Op: "move", From: "/a", Path: "/a/b"}})
	require.Error(t, err)
}

func TestApplyTestFailureIsAtomic(t *testing.T) {
	root := parse(t, `{"a":1,"b":2}`)
	_, err := jsonpatch.Apply(root, []jsonpatch.Op{
		{Op: "replace", Path: "/a", Value: json.NewInt(99)},
		{Op: "test", Path: "/b", Value: json.NewInt(3)},
	})
	require.Error(t, err)
	require.Equal(t, int64(1), root.Get("a").Num.Int)
}

func TestApplyCopy(t *testing.T) {
	root := parse(t, `{"a":1}`)
	out, err := jsonpatch.Apply(root, []jsonpatch.Op{{Op: "copy", From: "/a", Path: "/b"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.Get("b").Num.Int)
}

func TestMergePatchDeletesNullMembers(t *testing.T) {
	target := parse(t, `{"a":1,"b":2}`)
	patch := parse(t, `{"a":null}`)
	out := jsonpatch.MergePatch(target, patch)
	require.Nil(t, out.Get("a"))
	require.Equal(t, int64(2), out.Get("b").Num.Int)
}

func TestMergePatchRecursesIntoObjects(t *testing.T) {
	target := parse(t, `{"a":{"x":1,"y":2}}`)
	patch := parse(t, `{"a":{"x":9}}`)
	out := jsonpatch.MergePatch(target, patch)
	require.Equal(t, int64(9), out.Get("a").Get("x").Num.Int)
	require.Equal(t, int64(2), out.Get("a").Get("y").Num.Int)
}

func TestMergePatchArraysAlwaysReplace(t *testing.T) {
	target := parse(t, `{"a":[1,2,3]}`)
	patch := parse(t, `{"a":[9]}`)
	out := jsonpatch.MergePatch(target, patch)
	require.Equal(t, 1, out.Get("a").Len())
}

func TestMergePatchNonObjectReplacesEntirely(t *testing.T) {
	target := parse(t, `{"a":1}`)
	patch := parse(t, `[1,2]`)
	out := jsonpatch.MergePatch(target, patch)
	require.Equal(t, json.ArrayValue, out.Type)
}
