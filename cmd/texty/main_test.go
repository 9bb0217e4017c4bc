package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, cmd *cobra.Command, stdin string, args ...string) string {
	t.Helper()
	if stdin != "" {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		_, err = w.WriteString(stdin)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		old := os.Stdin
		os.Stdin = r
		defer func() { os.Stdin = old }()
	}

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	cmd.SetArgs(args)
	runErr := cmd.Execute()
	require.NoError(t, w.Close())
	os.Stdout = oldStdout
	require.NoError(t, runErr)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestCSVParseReportsShape(t *testing.T) {
	root := &cobra.Command{Use: "texty"}
	root.AddCommand(newCSVCmd())
	out := runCmd(t, root, "a,b\n1,2\n3,4\n", "csv", "parse", "--header")
	require.Contains(t, out, "rows=2")
	require.Contains(t, out, "header=[a b]")
}

func TestCSVQueryPrintsColumn(t *testing.T) {
	root := &cobra.Command{Use: "texty"}
	root.AddCommand(newCSVCmd())
	out := runCmd(t, root, "a,b\n1,2\n3,4\n", "csv", "query", "b")
	require.Equal(t, "2\n4\n", out)
}

func TestJSONFmtPrettyPrints(t *testing.T) {
	root := &cobra.Command{Use: "texty"}
	root.AddCommand(newJSONCmd())
	out := runCmd(t, root, `{"b":1,"a":2}`, "json", "fmt", "--pretty", "--sort-keys")
	require.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}\n", out)
}

func TestJSONQueryResolvesPointer(t *testing.T) {
	root := &cobra.Command{Use: "texty"}
	root.AddCommand(newJSONCmd())
	out := runCmd(t, root, `{"a":{"b":[1,2,3]}}`, "json", "query", "/a/b/1")
	require.Equal(t, "2\n", out)
}

func TestYAMLParseReportsShape(t *testing.T) {
	root := &cobra.Command{Use: "texty"}
	root.AddCommand(newYAMLCmd())
	out := runCmd(t, root, "a: 1\nb: 2\n", "yaml", "parse")
	require.Contains(t, out, "type=mapping")
}
