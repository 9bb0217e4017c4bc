package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willabides/texty/json"
	"github.com/willabides/texty/json/jsonpointer"
)

func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Operate on JSON documents",
	}
	cmd.AddCommand(newJSONParseCmd(), newJSONFmtCmd(), newJSONQueryCmd())
	return cmd
}

func newJSONParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a JSON document and report its shape",
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
			v, err := json.Parse(buf, json.DefaultParseOptions())
			if err != nil {
				return err
			}
			fmt.Printf("type=%s\n", v.Type)
			if v.Type == json.ObjectValue || v.Type == json.ArrayValue {
				fmt.Printf("len=%d\n", v.Len())
			}
			return nil
		},
	}
	return cmd
}

func newJSONFmtCmd() *cobra.Command {
	var pretty, sortKeys bool
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a JSON document",
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
			v, err := json.Parse(buf, json.DefaultParseOptions())
			if err != nil {
				return err
			}
			opts := json.DefaultWriteOptions()
			opts.Pretty = pretty
			opts.SortObjectKeys = sortKeys
			out, err := json.Marshal(v, opts)
			if err != nil {
				return err
			}
			out = append(out, '\n')
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print with indentation")
	cmd.Flags().BoolVar(&sortKeys, "sort-keys", false, "sort object keys")
	return cmd
}

func newJSONQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <pointer> [file]",
		Short: "Resolve a JSON Pointer (RFC 6901) against a document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			ptr := args[0]
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			buf, err := readInput(path)
			if err != nil {
				return err
			}
			v, err := json.Parse(buf, json.DefaultParseOptions())
			if err != nil {
				return err
			}
			found, err := jsonpointer.Get(v, ptr)
			if err != nil {
				return err
			}
			out, err := json.Marshal(found, json.DefaultWriteOptions())
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}
