package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/json"
)

func TestScannerEmitsEventOrderForObject(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	evs, err := s.Feed([]byte(`{"a":1,"b":[true,null]}`))
	require.NoError(t, err)
	more, err := s.Finish()
	require.NoError(t, err)
	all := append(evs, more...)

	types := make([]json.EventType, len(all))
	for i, e := range all {
		types[i] = e.Type
	}
	require.Equal(t, []json.EventType{
		json.ObjectBeginEvent,
		json.KeyEvent,
		json.NumberEvent,
		json.KeyEvent,
		json.ArrayBeginEvent,
		json.BoolEvent,
		json.NullEvent,
		json.ArrayEndEvent,
		json.ObjectEndEvent,
	}, types)
	require.Equal(t, "a", all[1].Key)
	require.Equal(t, "b", all[3].Key)
}

func TestScannerEmitsNestedArrayBeginBeforeElementsComplete(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	evs, err := s.Feed([]byte(`[1,2`))
	require.NoError(t, err)
	// the trailing "2" ends exactly at the buffer boundary, so it's held
	// back (it might continue as "23" in the next feed) and not emitted yet.
	require.Equal(t, []json.EventType{json.ArrayBeginEvent, json.NumberEvent}, []json.EventType{evs[0].Type, evs[1].Type})
	require.Equal(t, "1", evs[1].Value.Num.Lexeme)

	more, err := s.Feed([]byte(`,3]`))
	require.NoError(t, err)
	require.Equal(t, []json.EventType{json.NumberEvent, json.NumberEvent, json.ArrayEndEvent},
		[]json.EventType{more[0].Type, more[1].Type, more[2].Type})
	require.Equal(t, "2", more[0].Value.Num.Lexeme)
	require.Equal(t, "3", more[1].Value.Num.Lexeme)
}

func TestScannerBuffersStringSplitAcrossFeeds(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	evs1, err := s.Feed([]byte(`"hel`))
	require.NoError(t, err)
	require.Empty(t, evs1)

	evs2, err := s.Feed([]byte(`lo"`))
	require.NoError(t, err)
	require.Len(t, evs2, 1)
	require.Equal(t, json.StringEvent, evs2[0].Type)
	require.Equal(t, "hello", evs2[0].Value.Str)
}

func TestScannerBuffersNumberSplitAcrossFeeds(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	evs1, err := s.Feed([]byte(`12.`))
	require.NoError(t, err)
	require.Empty(t, evs1)

	evs2, err := s.Feed([]byte(`5`))
	require.NoError(t, err)
	more, err := s.Finish()
	require.NoError(t, err)
	all := append(evs2, more...)
	require.Len(t, all, 1)
	require.Equal(t, "12.5", all[0].Value.Num.Lexeme)
}

func TestScannerFinishErrorsOnIncompleteTopLevelValue(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	_, err := s.Feed([]byte(`{"a":1`))
	require.NoError(t, err)
	_, err = s.Finish()
	require.Error(t, err)
}

func TestScannerFinishErrorsOnTrailingGarbage(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	_, err := s.Feed([]byte(`1 2`))
	require.NoError(t, err)
	_, err = s.Finish()
	require.Error(t, err)
}

func TestScannerRejectsFeedAfterFinish(t *testing.T) {
	s := json.NewScanner(json.DefaultParseOptions())
	_, err := s.Feed([]byte(`1`))
	require.NoError(t, err)
	_, err = s.Finish()
	require.NoError(t, err)
	_, err = s.Feed([]byte(`2`))
	require.Error(t, err)
}
