package csv_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/texty/csv"
)

func TestTableInsertColumnPadsShortRows(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte("a")})
	tbl.AppendRow(csv.Row{})
	tbl.InsertColumn(1, []string{"x", "y"})
	require.Equal(t, "x", string(tbl.Rows[0][1]))
	require.Equal(t, "", string(tbl.Rows[1][0]))
	require.Equal(t, "y", string(tbl.Rows[1][1]))
}

func TestTableMinMaxColCount(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte("a"), []byte("b")})
	tbl.AppendRow(csv.Row{[]byte("c")})
	require.Equal(t, 1, tbl.MinColCount())
	require.Equal(t, 2, tbl.MaxColCount())
}

func TestTableNormalizeToMax(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte("a"), []byte("b")})
	tbl.AppendRow(csv.Row{[]byte("c")})
	tbl.NormalizeToMax()
	require.Len(t, tbl.Rows[1], 2)
	require.Equal(t, "", string(tbl.Rows[1][1]))
}

func TestTableValidateIrregular(t *testing.T) {
	tbl := csv.NewTable()
	tbl.AppendRow(csv.Row{[]byte("a"), []byte("b")})
	tbl.AppendRow(csv.Row{[]byte("c")})
	d := csv.DefaultDialect()
	require.Error(t, tbl.Validate(d))
	d.AllowIrregularRows = true
	require.NoError(t, tbl.Validate(d))
}

func TestTableSetFieldGrows(t *testing.T) {
	tbl := csv.NewTable()
	tbl.SetField(2, 2, []byte("z"))
	require.Len(t, tbl.Rows, 3)
	require.Equal(t, "z", string(tbl.Rows[2][2]))
}
