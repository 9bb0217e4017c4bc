package csv_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/csv"
)

func TestScannerEmitsEventOrder(t *testing.T) {
	s := csv.NewScanner(csv.DefaultDialect())
	evs, err := s.Feed([]byte("a,b\n"))
	require.NoError(t, err)
	more, err := s.Finish()
	require.NoError(t, err)
	evs = append(evs, more...)

	require.Equal(t, csv.RecordBegin, evs[0].Type)
	require.Equal(t, csv.Field, evs[1].Type)
	require.Equal(t, "a", string(evs[1].Value))
	require.Equal(t, csv.Field, evs[2].Type)
	require.Equal(t, "b", string(evs[2].Value))
	require.Equal(t, csv.RecordEnd, evs[3].Type)
	require.Equal(t, csv.End, evs[len(evs)-1].Type)
}

func TestScannerSplitAcrossFeeds(t *testing.T) {
	s := csv.NewScanner(csv.DefaultDialect())
	evs1, err := s.Feed([]byte("a,\"b"))
	require.NoError(t, err)
	// "a" completes (delimiter seen); the quoted field is still open.
	var firstValues []string
	for _, e := range evs1 {
		if e.Type == csv.Field {
			firstValues = append(firstValues, string(e.Value))
		}
	}
	require.Equal(t, []string{"a"}, firstValues)
	evs2, err := s.Feed([]byte(" c\",d\n"))
	require.NoError(t, err)
	more, err := s.Finish()
	require.NoError(t, err)
	all := append(append(evs1, evs2...), more...)
	var values []string
	for _, e := range all {
		if e.Type == csv.Field {
			values = append(values, string(e.Value))
		}
	}
	require.Equal(t, []string{"a", "b c", "d"}, values)
}

func TestScannerCommentLinesSkipped(t *testing.T) {
	d := csv.DefaultDialect()
	d.AllowComments = true
	d.CommentPrefix = "#"
	s := csv.NewScanner(d)
	evs, err := s.Feed([]byte("# a comment\na,b\n"))
	require.NoError(t, err)
	more, err := s.Finish()
	require.NoError(t, err)
	evs = append(evs, more...)
	var begins int
	for _, e := range evs {
		if e.Type == csv.RecordBegin {
			begins++
		}
	}
	require.Equal(t, 1, begins)
}
