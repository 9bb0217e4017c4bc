package csv_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/csv"
	"github.com/willabides/texty/internal/sink"
)

func writeTable(t *testing.T, tbl *csv.Table, d csv.Dialect) string {
	t.Helper()
	g := sink.NewGrowable()
	w := csv.NewWriter(g, d)
	require.NoError(t, w.WriteTable(tbl))
	return string(g.Bytes())
}

func TestWriterQuotesFieldsWithDelimiter(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte("a,b"), []byte("c")})
	d := csv.DefaultDialect()
	d.AcceptCRLF = false
	got := writeTable(t, tbl, d)
	require.Equal(t, "\"a,b\",c\n", got)
}

func TestWriterEscapesEmbeddedQuote(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte(`say "hi"`)})
	d := csv.DefaultDialect()
	d.AcceptCRLF = false
	got := writeTable(t, tbl, d)
	require.Equal(t, "\"say \"\"hi\"\"\"\n", got)
}

func TestWriterQuotesEmptyFieldsByDefault(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte(""), []byte("x")})
	d := csv.DefaultDialect()
	d.AcceptCRLF = false
	got := writeTable(t, tbl, d)
	require.Equal(t, "\"\",x\n", got)
}

func TestWriterHeaderWritten(t *testing.T) {
	tbl := csv.NewTable()
	tbl.Header = []string{"a", "b"}
	tbl.AppendRow(csv.Row{[]byte("1"), []byte("2")})
	d := csv.DefaultDialect()
	d.AcceptCRLF = false
	d.QuoteEmptyFields = false
	d.QuoteIfNeeded = true
	got := writeTable(t, tbl, d)
	require.Equal(t, "a,b\n1,2\n", got)
}

func TestWriterUsesCRLFWhenConfigured(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte("a")})
	d := csv.DefaultDialect()
	d.QuoteEmptyFields = false
	got := writeTable(t, tbl, d)
	require.Equal(t, "a\r\n", got)
}
