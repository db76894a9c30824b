package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/database"
	"github.com/nao1215/leadscan/internal/model"
	"github.com/nao1215/leadscan/internal/pipeline"
	"github.com/nao1215/leadscan/internal/report"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Crawl websites and collect contact leads",
		Long: `Scrape crawls each website, staying on the host of its start URL, and
collects the emails, phone numbers and LinkedIn profiles it publishes.

Contact, about, team and similar pages are fetched before other pages.
The crawl stops after --max-pages fetches.

Examples:
  # Scrape a single site
  leadscan scrape https://www.example.com

  # Fetch at most 30 pages, half a second apart
  leadscan scrape -p 30 -d 500ms https://www.example.com

  # Scrape the sites listed in a file, three at a time
  leadscan scrape --list sites.txt -b 3

  # Write an Excel workbook
  leadscan scrape -f xlsx -o leads.xlsx https://www.example.com

  # Output JSON without recording the run
  leadscan scrape -f json --no-save https://www.example.com

Configuration file (.leadscan) example:
  defaults:
    delay: 1s
  sites:
    www.example.com:
      maxPages: 30
      headers:
        Accept-Language: "en-US"
      ignorePatterns:
        - "/blog/*"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of fetches per site")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Minimum pause between fetches (0 disables pacing)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("concurrency", "w", config.DefaultConcurrency,
		"Number of crawl workers per site")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sites scraped concurrently")
	cmd.Flags().StringP("list", "l", "",
		"File with one start URL per line")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .leadscan in current or home directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file (creates directories if needed)")

	cmd.Flags().Bool("no-save", false, "Do not record the run in the history database")
	cmd.Flags().Bool("mask-contacts", false, "Mask emails and phone numbers in log output")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.MaskContacts)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScrape(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.CrawlDelay, err = flags.GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.MaskContacts, err = flags.GetBool("mask-contacts"); err != nil {
		return nil, err
	}
	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = getDBDir(cmd)
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.SiteConfigs, _, err = config.Discover(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	cfg.Targets = append(cfg.Targets, args...)
	listPath, err := flags.GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		targets, err := readTargetList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, targets...)
	}

	return cfg, nil
}

// readTargetList reads start URLs from a file, one per line.
// Blank lines and lines starting with # are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}

// runScrape scrapes every target of cfg and writes the reports.
func runScrape(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	logger.Info("starting scrape",
		"targets", cfg.Targets,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.DB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	optionsFor := func(startURL string) pipeline.Options {
		opts := pipeline.OptionsFromConfig(cfg, startURL)
		opts.Logger = logger
		if db != nil {
			opts.Store = db
		}
		return opts
	}

	if len(cfg.Targets) == 1 {
		return runSingleScrape(ctx, cfg, optionsFor, stdout, stderr)
	}
	return runBatchScrape(ctx, cfg, optionsFor, stdout, stderr, logger)
}

// runSingleScrape scrapes one site with a progress spinner.
func runSingleScrape(
	ctx context.Context,
	cfg *config.Config,
	optionsFor func(string) pipeline.Options,
	stdout, stderr io.Writer,
) error {
	target := cfg.Targets[0]
	opts := optionsFor(target)

	prog := newProgress(stderr, target)
	opts.Progress = prog.update
	prog.start()
	rep, err := pipeline.Scrape(ctx, target, opts)
	prog.stop()
	if err != nil {
		return err
	}

	return outputReport(cfg, rep, cfg.ReportFile, stdout)
}

// runBatchScrape scrapes several sites concurrently. Reports are written
// as each site finishes; a failed site does not stop the others.
func runBatchScrape(
	ctx context.Context,
	cfg *config.Config,
	optionsFor func(string) pipeline.Options,
	stdout, stderr io.Writer,
	logger *slog.Logger,
) error {
	fmt.Fprintf(stderr, "Starting batch scrape of %d sites (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(optionsFor,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var (
		mu     sync.Mutex
		failed []error
	)
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(r pipeline.BatchResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		if r.Err != nil {
			fmt.Fprintf(stderr, "[%d/%d] Scrape failed: %s: %v\n", index+1, len(cfg.Targets), r.URL, r.Err)
			failed = append(failed, r.Err)
			return
		}
		fmt.Fprintf(stderr, "[%d/%d] Scrape completed: %s (%d leads)\n",
			index+1, len(cfg.Targets), r.URL, len(r.Report.Rows))

		path := batchReportPath(cfg.ReportFile, r.Report)
		if err := outputReport(cfg, r.Report, path, stdout); err != nil {
			logger.Error("report failed", "url", r.URL, "error", err)
			failed = append(failed, err)
		}
	})

	fmt.Fprintf(stderr, "\nBatch scrape completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d sites failed: %w", len(failed), len(cfg.Targets), errors.Join(failed...))
	}
	return nil
}

// batchReportPath derives the report file of one site of a batch by
// inserting the site's host before the extension: leads.json becomes
// leads-www.example.com.json.
func batchReportPath(reportFile string, rep *model.ScrapeReport) string {
	if reportFile == "" {
		return ""
	}
	host := rep.Domain
	if host == "" {
		if u, err := url.Parse(rep.StartURL); err == nil {
			host = u.Host
		}
	}
	host = strings.NewReplacer(":", "_", "/", "_").Replace(host)

	ext := filepath.Ext(reportFile)
	return strings.TrimSuffix(reportFile, ext) + "-" + host + ext
}

// outputReport writes rep in the configured format, to path when set and to
// stdout otherwise. A report written to a file is followed by a summary on
// stdout.
func outputReport(cfg *config.Config, rep *model.ScrapeReport, path string, stdout io.Writer) error {
	if path == "" {
		w, err := newReportWriter(cfg, stdout)
		if err != nil {
			return err
		}
		_, err = w.Write(rep)
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports hold personal contact data, so the file is owner-only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	fileWriter, err := newReportWriter(cfg, f)
	if err != nil {
		return err
	}
	w := report.NewMultiWriter(fileWriter, report.NewSimpleWriter(stdout, report.WithSummaryOnly(true)))
	if _, err := w.Write(rep); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report written to %s\n", path)
	return nil
}

func newReportWriter(cfg *config.Config, output io.Writer) (report.Writer, error) {
	if cfg.Verbose && (cfg.Format == "" || cfg.Format == config.DefaultFormat) {
		return report.NewSimpleWriter(output, report.WithVerbose(true)), nil
	}
	return report.NewWriter(cfg.Format, output)
}
