package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/leadscan/internal/aggregate"
	"github.com/nao1215/leadscan/internal/database"
	"github.com/nao1215/leadscan/internal/model"
)

// NewCompareCmd creates the compare command.
// This command compares the leads of two recorded runs of a site.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <site>",
		Short: "Compare the leads of two recorded runs",
		Long: `Compare shows the leads that appeared and disappeared between two runs of a
site recorded in the history database. Leads are matched on contact type
and value.

By default the latest run is compared with the run before it.

Examples:
  # Compare the latest two runs
  leadscan compare www.example.com

  # Compare the latest run with a specific earlier run
  leadscan compare --with-run-id 4f1c... www.example.com

  # Output the comparison in JSON format
  leadscan compare --json www.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("with-run-id", "i", "",
		"Compare the latest run with this run (see 'leadscan history <site>')")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// RunInfo identifies one side of a comparison.
type RunInfo struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Total     int       `json:"total"`
}

// ComparisonResult holds the result of comparing two runs of a site.
type ComparisonResult struct {
	// Site is the compared host.
	Site string `json:"site"`
	// Previous is the older run.
	Previous RunInfo `json:"previous_run"`
	// Current is the newer run.
	Current RunInfo `json:"current_run"`
	// Added are the leads only present in the current run.
	Added []model.ResultRow `json:"added"`
	// Removed are the leads only present in the previous run.
	Removed []model.ResultRow `json:"removed"`
}

// HasChanges reports whether the two runs differ.
func (c *ComparisonResult) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	site := strings.ToLower(args[0])

	withRunID, err := cmd.Flags().GetString("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return fmt.Errorf("no run history found for %s", site)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := compareRuns(commandContext(cmd), db, site, withRunID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return writeJSON(out, result)
	case markdownOutput:
		return writeComparisonMarkdown(out, result)
	default:
		writeComparisonText(out, result)
		return nil
	}
}

// compareRuns diffs the latest run of site with the run before it, or with
// the run withRunID when set.
func compareRuns(ctx context.Context, db *database.DB, site, withRunID string) (*ComparisonResult, error) {
	runs, err := db.ListRuns(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no run history found for %s", site)
	}

	current := runs[0]
	var previous *database.RunSummary
	if withRunID != "" {
		if withRunID == current.ID {
			return nil, fmt.Errorf("run %s is the latest run; choose an earlier run", withRunID)
		}
		for i := range runs {
			if runs[i].ID == withRunID {
				previous = &runs[i]
				break
			}
		}
		if previous == nil {
			other, err := db.GetRun(ctx, withRunID)
			if err != nil {
				return nil, fmt.Errorf("failed to get run %s: %w", withRunID, err)
			}
			return nil, fmt.Errorf("run %s belongs to %s, not %s", withRunID, other.Domain, site)
		}
	} else {
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		previous = &runs[1]
	}

	diff, err := db.Compare(ctx, previous.ID, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compare runs: %w", err)
	}
	return newComparisonResult(site, *previous, current, diff), nil
}

func newComparisonResult(site string, previous, current database.RunSummary, diff aggregate.Diff) *ComparisonResult {
	return &ComparisonResult{
		Site:     site,
		Previous: RunInfo{ID: previous.ID, StartedAt: previous.StartedAt, Total: previous.Stats.Total},
		Current:  RunInfo{ID: current.ID, StartedAt: current.StartedAt, Total: current.Stats.Total},
		Added:    diff.Added,
		Removed:  diff.Removed,
	}
}

// writeComparisonText writes the comparison in human-readable form.
func writeComparisonText(out io.Writer, c *ComparisonResult) {
	fmt.Fprintf(out, "Comparison for %s\n", c.Site)
	fmt.Fprintf(out, "  previous: %s  %s  (%d leads)\n",
		c.Previous.ID, c.Previous.StartedAt.Local().Format(historyDateLayout), c.Previous.Total)
	fmt.Fprintf(out, "  current:  %s  %s  (%d leads)\n\n",
		c.Current.ID, c.Current.StartedAt.Local().Format(historyDateLayout), c.Current.Total)

	if !c.HasChanges() {
		fmt.Fprintln(out, "No changes.")
		return
	}

	if len(c.Added) > 0 {
		fmt.Fprintf(out, "New leads (%d):\n", len(c.Added))
		for _, r := range c.Added {
			fmt.Fprintf(out, "  + %s\n", formatLead(r))
		}
	}
	if len(c.Removed) > 0 {
		fmt.Fprintf(out, "Removed leads (%d):\n", len(c.Removed))
		for _, r := range c.Removed {
			fmt.Fprintf(out, "  - %s\n", formatLead(r))
		}
	}
}

func formatLead(r model.ResultRow) string {
	s := fmt.Sprintf("%-8s %s", r.ContactType, r.Value)
	var who []string
	if r.Name != "" {
		who = append(who, r.Name)
	}
	if r.JobTitle != "" {
		who = append(who, r.JobTitle)
	}
	if len(who) > 0 {
		s += " (" + strings.Join(who, ", ") + ")"
	}
	return s
}

// writeComparisonMarkdown writes the comparison as a Markdown document.
func writeComparisonMarkdown(out io.Writer, c *ComparisonResult) error {
	md := markdown.NewMarkdown(out)
	md.H1("Leadscan Comparison: " + c.Site)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Run", "ID", "Date", "Leads"},
		Rows: [][]string{
			{"Previous", "`" + c.Previous.ID + "`", c.Previous.StartedAt.Format(historyDateLayout), strconv.Itoa(c.Previous.Total)},
			{"Current", "`" + c.Current.ID + "`", c.Current.StartedAt.Format(historyDateLayout), strconv.Itoa(c.Current.Total)},
		},
	})
	md.PlainText("")

	if !c.HasChanges() {
		md.PlainText("No changes.")
		return md.Build()
	}

	writeRowSection(md, "New Leads", c.Added)
	writeRowSection(md, "Removed Leads", c.Removed)
	return md.Build()
}

func writeRowSection(md *markdown.Markdown, title string, rows []model.ResultRow) {
	if len(rows) == 0 {
		return
	}
	md.H2(fmt.Sprintf("%s (%d)", title, len(rows)))
	md.PlainText("")

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	md.Table(markdown.TableSet{
		Header: model.RowHeaders,
		Rows:   cells,
	})
	md.PlainText("")
}
