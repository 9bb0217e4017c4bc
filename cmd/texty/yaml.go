package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willabides/texty/yaml"
)

func newYAMLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yaml",
		Short: "Operate on YAML documents",
	}
	cmd.AddCommand(newYAMLParseCmd(), newYAMLFmtCmd(), newYAMLQueryCmd())
	return cmd
}

func newYAMLParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a YAML document and report its shape",
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
			doc, err := yaml.Decode(bytes.NewReader(buf), yaml.DefaultParseOptions())
			if err != nil {
				return err
			}
			fmt.Printf("type=%s anchors=%d\n", doc.Root.Type, len(doc.Anchors))
			return nil
		},
	}
	return cmd
}

func newYAMLFmtCmd() *cobra.Command {
	var canonical bool
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a YAML document",
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
			doc, err := yaml.Decode(bytes.NewReader(buf), yaml.DefaultParseOptions())
			if err != nil {
				return err
			}
			opts := yaml.DefaultWriteOptions()
			opts.Canonical = canonical
			return yaml.EncodeDocument(os.Stdout, doc, opts)
		},
	}
	cmd.Flags().BoolVar(&canonical, "canonical", false, "emit canonical form")
	return cmd
}

func newYAMLQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <key> [file]",
		Short: "Print the value under a top-level mapping key",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			key := args[0]
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			buf, err := readInput(path)
			if err != nil {
				return err
			}
			doc, err := yaml.Decode(bytes.NewReader(buf), yaml.DefaultParseOptions())
			if err != nil {
				return err
			}
			n := doc.Root.Get(key)
			if n == nil {
				return fmt.Errorf("no such key: %s", key)
			}
			var buf2 bytes.Buffer
			enc := yaml.NewEncoder(&buf2, yaml.DefaultWriteOptions())
			if err := enc.Encode(&yaml.Document{Root: n}); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
			fmt.Print(buf2.String())
			return nil
		},
	}
	return cmd
}
