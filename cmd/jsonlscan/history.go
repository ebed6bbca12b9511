package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/jsonlscan/internal/database"
	"github.com/nao1215/jsonlscan/internal/model"
)

// historyTimeFormat is used for timestamps in history listings.
const historyTimeFormat = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// It compares analyses stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "Compare a file's key shape with earlier analyses",
		Long: `History shows how the key shape of a file changed between analyses.

Every 'jsonlscan analyze' run is recorded (unless --no-history is given).
By default the latest two analyses of the file are compared and the
added keys, removed keys and changed key counts are printed.

Examples:
  # Compare the latest two analyses of a file
  jsonlscan history data.jsonl

  # List every recorded analysis of a file
  jsonlscan history --list data.jsonl

  # Compare the latest analysis with analysis #3
  jsonlscan history --with-id 3 data.jsonl

  # List every file with recorded analyses
  jsonlscan history --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false, "List recorded analyses of the file")
	cmd.Flags().BoolP("list-sources", "L", false, "List every file with recorded analyses")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare the latest analysis with the analysis of this ID (see --list)")
	cmd.Flags().BoolP("json", "j", false, "Output the comparison as JSON")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var key string
	if !listSources {
		if len(args) == 0 {
			return errors.New("file is required (use --list-sources to see recorded files)")
		}
		if key, err = historyKey(args[0]); err != nil {
			return fmt.Errorf("invalid file path: %w", err)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cfg, cmd.ErrOrStderr())

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if listSources {
		return listRecordedSources(ctx, out, db)
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listHistory(ctx, out, db, key)
	}

	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	comparison, err := buildComparison(ctx, db, key, withID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputComparisonJSON(out, comparison)
	}
	return outputComparisonText(out, comparison)
}

func listRecordedSources(ctx context.Context, w io.Writer, db *database.HistoryDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Fprintln(w, "No analyses recorded yet.")
		fmt.Fprintln(w, "\nUse 'jsonlscan analyze <file>' to analyze a file.")
		return nil
	}

	fmt.Fprintf(w, "Recorded files (%d):\n\n", len(sources))
	for _, s := range sources {
		fmt.Fprintf(w, "  • %s\n", s)
	}
	fmt.Fprintln(w, "\nUse 'jsonlscan history --list <file>' to see the analyses of a file.")
	return nil
}

func listHistory(ctx context.Context, w io.Writer, db *database.HistoryDB, key string) error {
	history, err := db.History(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(w, "No analyses recorded for %s\n", key)
		return nil
	}

	fmt.Fprintf(w, "Analyses of %s (%d):\n\n", key, len(history))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Date", "Rows", "Failed", "Keys", "Schema"})
	for _, meta := range history {
		t.AppendRow(table.Row{
			meta.ID,
			meta.Timestamp.Format(historyTimeFormat),
			meta.RowsParsed,
			meta.FailedLines,
			meta.UniqueKeys,
			meta.SchemaFingerprint,
		})
	}
	t.Render()

	fmt.Fprintln(w, "\nUse 'jsonlscan history <file>' to compare the latest two analyses.")
	fmt.Fprintln(w, "Use 'jsonlscan history --with-id <id> <file>' to compare with a specific analysis.")
	return nil
}

// AnalysisRef identifies one side of a comparison.
type AnalysisRef struct {
	ID                int64     `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	RowsParsed        int       `json:"rows_parsed"`
	FailedLines       int       `json:"failed_lines"`
	UniqueKeys        int       `json:"unique_keys"`
	SchemaFingerprint string    `json:"schema_fingerprint"`
}

func newAnalysisRef(a *database.Analysis) AnalysisRef {
	return AnalysisRef{
		ID:                a.ID,
		Timestamp:         a.Timestamp,
		RowsParsed:        a.Summary.RowsParsed,
		FailedLines:       a.Summary.FailedLines,
		UniqueKeys:        a.Summary.UniqueKeyCount(),
		SchemaFingerprint: a.Summary.SchemaFingerprint,
	}
}

// ComparisonResult holds the difference between two analyses of a file.
type ComparisonResult struct {
	Source   string            `json:"source"`
	Previous AnalysisRef       `json:"previous"`
	Current  AnalysisRef       `json:"current"`
	Diff     *model.SchemaDiff `json:"diff"`
}

// buildComparison compares the latest analysis of key with the analysis
// withID, or with the one before it when withID is zero.
func buildComparison(ctx context.Context, db *database.HistoryDB, key string, withID int64) (*ComparisonResult, error) {
	recent, err := db.RecentAnalyses(ctx, key, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("no analyses recorded for %s", key)
	}

	current := recent[0]
	var previous *database.Analysis

	if withID > 0 {
		previous, err = db.AnalysisByID(ctx, withID)
		if err != nil {
			return nil, fmt.Errorf("failed to get analysis %d: %w", withID, err)
		}
		if previous == nil {
			return nil, fmt.Errorf("analysis %d not found", withID)
		}
		if previous.Source != key {
			return nil, fmt.Errorf("analysis %d belongs to %s, not %s", withID, previous.Source, key)
		}
	} else {
		if len(recent) < 2 {
			return nil, fmt.Errorf("at least 2 analyses are required for comparison (found %d)", len(recent))
		}
		previous = recent[1]
	}

	return &ComparisonResult{
		Source:   key,
		Previous: newAnalysisRef(previous),
		Current:  newAnalysisRef(current),
		Diff:     model.CompareSummaries(previous.Summary, current.Summary),
	}, nil
}

func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Comparison for %s\n\n", result.Source)
	fmt.Fprintf(&sb, "  Previous: #%d  %s\n", result.Previous.ID, result.Previous.Timestamp.Format(historyTimeFormat))
	fmt.Fprintf(&sb, "  Current:  #%d  %s\n\n", result.Current.ID, result.Current.Timestamp.Format(historyTimeFormat))

	diff := result.Diff
	if !diff.HasChanges() {
		sb.WriteString("No changes.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	if diff.SchemaChanged {
		sb.WriteString("Schema: changed\n")
	} else {
		sb.WriteString("Schema: unchanged\n")
	}
	fmt.Fprintf(&sb, "Rows analyzed: %d -> %d (%s)\n",
		result.Previous.RowsParsed, result.Current.RowsParsed, signed(diff.RowsParsedDelta))
	fmt.Fprintf(&sb, "Lines failed:  %d -> %d (%s)\n",
		result.Previous.FailedLines, result.Current.FailedLines, signed(diff.FailedLinesDelta))
	fmt.Fprintf(&sb, "Added keys:    %s\n", keyList(diff.AddedKeys))
	fmt.Fprintf(&sb, "Removed keys:  %s\n", keyList(diff.RemovedKeys))

	if len(diff.CountDeltas) > 0 {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Key", "Previous", "Current", "Delta"})
		for _, d := range diff.CountDeltas {
			t.AppendRow(table.Row{d.Key, d.OldCount, d.NewCount, signed(d.Delta())})
		}
		sb.WriteString("\n")
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func keyList(keys model.KeySet) string {
	if keys.Len() == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}
