package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/database"
	"github.com/nao1215/leadscan/internal/log"
)

// NewRootCmd creates the root command for leadscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadscan",
		Short: "Collect contact leads from company websites",
		Long: `leadscan crawls a single website, staying on its host, and extracts the
contact details it publishes: emails, phone numbers and LinkedIn profiles,
associated with names and job titles where possible.

Pages that usually hold contact details (contact, about, team, staff, ...)
are crawled first. Every run is recorded in a local history database so
later runs can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the run history database")

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDir returns the history database directory from the command or its parent.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		dir, err = cmd.Root().PersistentFlags().GetString("db-dir")
	}
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// setupLogger creates the CLI logger on the command's error stream.
func setupLogger(cmd *cobra.Command, maskContacts bool) *slog.Logger {
	return log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd),
		log.WithContactMasking(maskContacts))
}

// commandContext returns the context the command was executed with.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openHistory opens an existing history database.
func openHistory(cmd *cobra.Command) (*database.DB, error) {
	db, err := database.Open(getDBDir(cmd), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
