package yaml_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/yaml"
)

func drainStream(t *testing.T, src string) []yaml.StreamEvent {
	t.Helper()
	s := yaml.NewStream(strings.NewReader(src))
	var out []yaml.StreamEvent
	for {
		ev, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, *ev)
	}
	return out
}

func TestStreamEmitsStartAndEnd(t *testing.T) {
	evs := drainStream(t, "a: 1\n")
	require.Equal(t, yaml.EvStreamStart, evs[0].Type)
	require.Equal(t, yaml.EvStreamEnd, evs[len(evs)-1].Type)
}

func TestStreamEmitsScalarValue(t *testing.T) {
	evs := drainStream(t, "hello\n")
	found := false
	for _, e := range evs {
		if e.Type == yaml.EvScalar && e.Value == "hello" {
			found = true
		}
	}
	require.True(t, found)
}

func TestStreamEmitsAnchorIndicator(t *testing.T) {
	evs := drainStream(t, "a: &x 1\nb: *x\n")
	var sawAnchorIndicator, sawAliasIndicator bool
	for _, e := range evs {
		if e.Type == yaml.EvIndicator && e.Indicator == '&' {
			sawAnchorIndicator = true
		}
		if e.Type == yaml.EvIndicator && e.Indicator == '*' {
			sawAliasIndicator = true
		}
	}
	require.True(t, sawAnchorIndicator)
	require.True(t, sawAliasIndicator)
}

func TestStreamEmitsDirective(t *testing.T) {
	evs := drainStream(t, "%YAML 1.1\n---\nx\n")
	found := false
	for _, e := range evs {
		if e.Type == yaml.EvDirective && e.DirectiveName == "YAML" {
			require.Equal(t, "1", e.DirectiveValue)
			require.Equal(t, "1", e.DirectiveValue2)
			found = true
		}
	}
	require.True(t, found)
}

func TestChunkedStreamMatchesWholeInput(t *testing.T) {
	whole := drainStream(t, "a: &x [1, 2, 3]\nb: *x\n")

	s := yaml.NewChunkedStream()
	var chunked []yaml.StreamEvent
	for _, piece := range []string{"a: &x ", "[1, 2", ", 3]\n", "b: *x", "\n"} {
		evs, err := s.Feed([]byte(piece))
		require.NoError(t, err)
		chunked = append(chunked, evs...)
	}
	evs, err := s.Finish()
	require.NoError(t, err)
	chunked = append(chunked, evs...)

	require.Equal(t, whole, chunked)
}

func TestChunkedStreamFeedNeverBlocksOnPartialToken(t *testing.T) {
	s := yaml.NewChunkedStream()
	evs, err := s.Feed([]byte("a: &anch"))
	require.NoError(t, err)
	for _, e := range evs {
		require.NotEqual(t, yaml.EvStreamEnd, e.Type)
	}

	evs, err = s.Feed([]byte("or [1, 2]\n"))
	require.NoError(t, err)
	found := false
	for _, e := range evs {
		if e.Type == yaml.EvIndicator && e.Indicator == '&' {
			found = true
		}
	}
	require.True(t, found)

	_, err = s.Finish()
	require.NoError(t, err)
}

func TestChunkedStreamFinishReportsIncompleteInput(t *testing.T) {
	s := yaml.NewChunkedStream()
	_, err := s.Feed([]byte("a: [1, 2"))
	require.NoError(t, err)

	_, err = s.Finish()
	require.Error(t, err)
	yerr, ok := err.(*yaml.Error)
	require.True(t, ok)
	require.Equal(t, yaml.EIncomplete, yerr.Code)
}
