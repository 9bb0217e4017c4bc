package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/yaml"
)

func TestNodeGetAndKeys(t *testing.T) {
	n := &yaml.Node{
		Type: yaml.MappingNode,
		Mapping: []yaml.Pair{
			{Key: &yaml.Node{Type: yaml.StringNode, Value: "a"}, Value: &yaml.Node{Type: yaml.IntNode, Int: 1}},
			{Key: &yaml.Node{Type: yaml.StringNode, Value: "b"}, Value: &yaml.Node{Type: yaml.IntNode, Int: 2}},
		},
	}
	require.Equal(t, []string{"a", "b"}, n.Keys())
	require.Equal(t, int64(2), n.Get("b").Int)
	require.Nil(t, n.Get("missing"))
	require.Equal(t, 2, n.Len())
}

func TestNodeTargetFollowsAlias(t *testing.T) {
	target := &yaml.Node{Type: yaml.StringNode, Value: "x"}
	alias := &yaml.Node{Type: yaml.AliasNode, Alias: target}
	require.Same(t, target, alias.Target())
	require.Same(t, target, target.Target())
}

func TestNodeIsScalar(t *testing.T) {
	require.True(t, (&yaml.Node{Type: yaml.StringNode}).IsScalar())
	require.True(t, (&yaml.Node{Type: yaml.BinaryNode}).IsScalar())
	require.False(t, (&yaml.Node{Type: yaml.MappingNode}).IsScalar())
}

func TestNodeTypeString(t *testing.T) {
	require.Equal(t, "mapping", yaml.MappingNode.String())
	require.Equal(t, "sequence", yaml.SequenceNode.String())
}
