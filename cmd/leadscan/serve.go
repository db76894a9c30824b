package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/database"
	"github.com/nao1215/leadscan/internal/log"
	"github.com/nao1215/leadscan/internal/pipeline"
	"github.com/nao1215/leadscan/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scrape form and JSON API over HTTP",
		Long: `Serve starts an HTTP server with:
- GET  /            an HTML form that returns the leads as an Excel workbook
- POST /api/scrape  a JSON API: {"url": "...", "max_pages": 15, "delay": 1.0}
- GET  /health      a liveness check

Per-site settings of the configuration file apply to every request.

Examples:
  # Listen on the default address
  leadscan serve

  # Listen on localhost only and record every run
  leadscan serve --addr 127.0.0.1:9000 --save`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultListenAddress, "Address to listen on")
	cmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout,
		"Maximum duration of the scrape of one request")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .leadscan in current or home directory)")
	cmd.Flags().Bool("save", false, "Record every run in the history database")
	cmd.Flags().Bool("mask-contacts", false, "Mask emails and phone numbers in log output")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	requestTimeout, err := cmd.Flags().GetDuration("request-timeout")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}
	mask, err := cmd.Flags().GetBool("mask-contacts")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if cfg.SiteConfigs, _, err = config.Discover(configPath); err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose, log.WithContactMasking(mask))
	if verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var db *database.DB
	if save {
		db, err = database.Open(getDBDir(cmd), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	srv := server.New(
		server.WithLogger(logger),
		server.WithRequestTimeout(requestTimeout),
		server.WithOptions(func(startURL string) pipeline.Options {
			opts := pipeline.OptionsFromConfig(cfg, startURL)
			if db != nil {
				opts.Store = db
			}
			return opts
		}),
	)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
