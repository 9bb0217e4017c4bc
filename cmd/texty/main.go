// Package main provides the CLI entry point for texty, a tool that
// parses, reformats, and queries CSV, JSON, and YAML documents.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "texty",
		Short:         "Parse, reformat, and query CSV, JSON, and YAML documents",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newCSVCmd(), newJSONCmd(), newYAMLCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "texty: %v\n", err)
		os.Exit(1)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return data, nil
	}
	return os.ReadFile(path)
}
