package csv_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/csv"
)

func TestParseSimpleTable(t *testing.T) {
	tbl, err := csv.Parse([]byte("a,b,c\n1,2,3\n"), csv.DefaultDialect(), csv.DefaultParseLimits())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	require.Equal(t, "a", string(tbl.Rows[0][0]))
	require.Equal(t, "3", string(tbl.Rows[1][2]))
}

func TestParseWithHeader(t *testing.T) {
	d := csv.DefaultDialect()
	d.TreatFirstRowAsHeader = true
	tbl, err := csv.Parse([]byte("name,age\nalice,30\nbob,40\n"), d, csv.DefaultParseLimits())
	require.NoError(t, err)
	require.Equal(t, []string{"name", "age"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	require.Equal(t, "alice", string(tbl.Rows[0][0]))
}

func TestParseQuotedFieldWithEmbeddedComma(t *testing.T) {
	tbl, err := csv.Parse([]byte(`a,"b,c",d`+"\n"), csv.DefaultDialect(), csv.DefaultParseLimits())
	require.NoError(t, err)
	require.Equal(t, "b,c", string(tbl.Rows[0][1]))
}

func TestParseQuotedFieldWithEscapedQuote(t *testing.T) {
	tbl, err := csv.Parse([]byte(`a,"say ""hi""",c`+"\n"), csv.DefaultDialect(), csv.DefaultParseLimits())
	require.NoError(t, err)
	require.Equal(t, `say "hi"`, string(tbl.Rows[0][1]))
}

func TestParseUnterminatedQuoteErrors(t *testing.T) {
	_, err := csv.Parse([]byte(`a,"b,c`), csv.DefaultDialect(), csv.DefaultParseLimits())
	require.Error(t, err)
	cerr, ok := err.(*csv.Error)
	require.True(t, ok)
	require.Equal(t, csv.EUnterminatedQuote, cerr.Code)
}

func TestParseHeaderDupError(t *testing.T) {
	d := csv.DefaultDialect()
	d.TreatFirstRowAsHeader = true
	d.HeaderDupMode = csv.HeaderDupError
	_, err := csv.Parse([]byte("a,a\n1,2\n"), d, csv.DefaultParseLimits())
	require.Error(t, err)
	cerr, ok := err.(*csv.Error)
	require.True(t, ok)
	require.Equal(t, csv.EHeaderDup, cerr.Code)
}

func TestParseHeaderDupCollect(t *testing.T) {
	d := csv.DefaultDialect()
	d.TreatFirstRowAsHeader = true
	d.HeaderDupMode = csv.HeaderDupCollect
	tbl, err := csv.Parse([]byte("a,a,b\n1,2,3\n"), d, csv.DefaultParseLimits())
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, tbl.HeaderDups["a"])
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := csv.Parse([]byte("a,\xff\xfe\n"), csv.DefaultDialect(), csv.DefaultParseLimits())
	require.Error(t, err)
	cerr, ok := err.(*csv.Error)
	require.True(t, ok)
	require.Equal(t, csv.EInvalidUTF8, cerr.Code)
}

func TestParseIrregularRowsRejectedByDefault(t *testing.T) {
	_, err := csv.Parse([]byte("a,b\n1\n"), csv.DefaultDialect(), csv.DefaultParseLimits())
	require.Error(t, err)
}

func TestParseIrregularRowsAllowed(t *testing.T) {
	d := csv.DefaultDialect()
	d.AllowIrregularRows = true
	tbl, err := csv.Parse([]byte("a,b\n1\n"), d, csv.DefaultParseLimits())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
}
