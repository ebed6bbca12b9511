package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/jsonlscan/internal/pipeline"
	"github.com/nao1215/jsonlscan/internal/source"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file> <row>",
		Short: "Print one row and the keys it lacks",
		Long: `Show pretty-prints a single row of a JSONL file and lists the keys that
other rows have but this row lacks.

Rows are numbered from 0 and count non-blank lines only, matching the
row numbers in the analyze report.

Examples:
  # Inspect a row listed under "Rows with missing keys"
  jsonlscan show data.jsonl 2`,
		Args: cobra.ExactArgs(2),
		RunE: runShowCmd,
	}

	cmd.Flags().String("compression", string(source.CompressionAuto),
		"Input compression: auto, none, gzip, zstd or lz4")

	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cfg, cmd.ErrOrStderr())

	row, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid row %q: %w", args[1], err)
	}

	src := source.NewFileSource(args[0])
	detail, err := pipeline.InspectRow(src, row, cfg.InputCompression())
	if err != nil {
		return err
	}

	return printRowDetail(cmd.OutOrStdout(), src.Name(), detail)
}

func printRowDetail(w io.Writer, name string, detail *pipeline.RowDetail) error {
	fmt.Fprintf(w, "Row %d (line %d) of %s:\n", detail.Row, detail.Line, name)

	if !detail.Parsed() {
		fmt.Fprintf(w, "%s\n\n", detail.Text)
		return fmt.Errorf("row %d failed to parse: %w", detail.Row, detail.ParseErr)
	}

	pretty, err := detail.Pretty()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n\n", pretty)

	if detail.Missing.Len() == 0 {
		fmt.Fprintln(w, "Missing keys: none")
		return nil
	}
	fmt.Fprintf(w, "Missing keys (%d): %s\n", detail.Missing.Len(), strings.Join(detail.Missing, ", "))
	return nil
}
