package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willabides/texty/csv"
	"github.com/willabides/texty/internal/sink"
)

func newCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Operate on CSV documents",
	}
	cmd.AddCommand(newCSVParseCmd(), newCSVFmtCmd(), newCSVQueryCmd())
	return cmd
}

func newCSVParseCmd() *cobra.Command {
	var hasHeader bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a CSV document and report its shape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			buf, err := readInput(path)
			if err != nil {
				return err
			}
			d := csv.DefaultDialect()
			d.TreatFirstRowAsHeader = hasHeader
			t, err := csv.Parse(buf, d, csv.DefaultParseLimits())
			if err != nil {
				return err
			}
			fmt.Printf("rows=%d min_cols=%d max_cols=%d\n", len(t.Rows), t.MinColCount(), t.MaxColCount())
			if len(t.Header) > 0 {
				fmt.Printf("header=%v\n", t.Header)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hasHeader, "header", false, "treat the first row as a header")
	return cmd
}

func newCSVFmtCmd() *cobra.Command {
	var hasHeader, quoteAll bool
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a CSV document under the default dialect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			buf, err := readInput(path)
			if err != nil {
				return err
			}
			d := csv.DefaultDialect()
			d.TreatFirstRowAsHeader = hasHeader
			t, err := csv.Parse(buf, d, csv.DefaultParseLimits())
			if err != nil {
				return err
			}
			d.QuoteAllFields = quoteAll
			w := csv.NewWriter(sink.FromIOWriter(os.Stdout), d)
			return w.WriteTable(t)
		},
	}
	cmd.Flags().BoolVar(&hasHeader, "header", false, "treat the first row as a header")
	cmd.Flags().BoolVar(&quoteAll, "quote-all", false, "quote every field")
	return cmd
}

func newCSVQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <column> [file]",
		Short: "Print one column's values, one per line",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			col := args[0]
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			buf, err := readInput(path)
			if err != nil {
				return err
			}
			d := csv.DefaultDialect()
			d.TreatFirstRowAsHeader = true
			t, err := csv.Parse(buf, d, csv.DefaultParseLimits())
			if err != nil {
				return err
			}
			idx := -1
			for i, h := range t.Header {
				if h == col {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("no such column: %s", col)
			}
			for _, row := range t.Rows {
				if idx < len(row) {
					fmt.Println(string(row[idx]))
				} else {
					fmt.Println()
				}
			}
			return nil
		},
	}
	return cmd
}
