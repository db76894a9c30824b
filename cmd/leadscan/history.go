package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/leadscan/internal/database"
)

// historyDateLayout is the date format of history listings.
const historyDateLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "List recorded runs",
		Long: `History lists the sites recorded in the run history database or, given a
site host, the runs of that site, newest first.

Examples:
  # List every recorded site
  leadscan history

  # List the runs of one site
  leadscan history www.example.com

  # Output the runs in JSON format
  leadscan history --json www.example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	db, err := openHistory(cmd)
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out, "\nUse 'leadscan scrape <url>' to scrape a site.")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := commandContext(cmd)
	if len(args) == 0 {
		sites, err := db.ListSites(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, sites)
		}
		return printSites(out, sites)
	}

	site := args[0]
	runs, err := db.ListRuns(ctx, site)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, runs)
	}
	return printRuns(out, site, runs)
}

func printSites(out io.Writer, sites []string) error {
	if len(sites) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	fmt.Fprintf(out, "Scraped sites (%d):\n\n", len(sites))
	for _, s := range sites {
		fmt.Fprintf(out, "  • %s\n", s)
	}
	fmt.Fprintln(out, "\nUse 'leadscan history <site>' to see the runs of a site.")
	return nil
}

func printRuns(out io.Writer, site string, runs []database.RunSummary) error {
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded for %s\n", site)
		return nil
	}

	fmt.Fprintf(out, "Runs of %s (%d):\n\n", site, len(runs))
	tbl := table.New("ID", "Date", "Pages", "Emails", "Phones", "LinkedIn", "Total").WithWriter(out)
	for _, r := range runs {
		tbl.AddRow(r.ID, r.StartedAt.Local().Format(historyDateLayout),
			r.Stats.PagesCrawled, r.Stats.Emails, r.Stats.Phones, r.Stats.LinkedIn, r.Stats.Total)
	}
	tbl.Print()

	fmt.Fprintf(out, "\nUse 'leadscan compare %s' to compare the latest two runs.\n", site)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
