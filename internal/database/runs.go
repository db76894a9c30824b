package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/leadscan/internal/aggregate"
	"github.com/nao1215/leadscan/internal/model"
)

// RunSummary describes a stored run without loading its rows.
type RunSummary struct {
	// ID is the run identifier.
	ID string `json:"id"`
	// Site is the host that was scraped.
	Site string `json:"site"`
	// StartURL is the normalized start URL.
	StartURL string `json:"start_url"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// Stats are the run counters.
	Stats model.Stats `json:"stats"`
}

// SaveRun stores a completed run and its result rows in one transaction.
// A report without an ID gets a fresh one.
func (hdb *DB) SaveRun(ctx context.Context, report *model.ScrapeReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	s := report.Stats
	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, site, start_url, started_at, finished_at,
		pages_crawled, pages_failed, duration_ms, emails, phones, linkedin, total, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID,
		siteOf(report),
		report.StartURL,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		s.PagesCrawled,
		s.PagesFailed,
		s.Duration.Milliseconds(),
		s.Emails,
		s.Phones,
		s.LinkedIn,
		s.Total,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO contacts (run_id, contact_type, value, name, job_title, source_url)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, contact_type, value) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare contact insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range report.Rows {
		if _, err := stmt.ExecContext(ctx, report.ID, string(r.ContactType), r.Value, r.Name, r.JobTitle, r.SourceURL); err != nil {
			return fmt.Errorf("failed to save contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// siteOf returns the history key of a report: its domain, or the start
// URL's host when the crawl never resolved one.
func siteOf(report *model.ScrapeReport) string {
	if report.Domain != "" {
		return strings.ToLower(report.Domain)
	}
	if u, err := url.Parse(report.StartURL); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return report.StartURL
}

// ListSites returns every scraped site in alphabetical order.
func (hdb *DB) ListSites(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT site FROM runs ORDER BY site`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	sites := make([]string, 0)
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// ListRuns returns the runs of site, newest first.
func (hdb *DB) ListRuns(ctx context.Context, site string) ([]RunSummary, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, site, start_url, started_at, pages_crawled, pages_failed, duration_ms,
		emails, phones, linkedin, total
	FROM runs
	WHERE site = ?
	ORDER BY started_at DESC
	`, strings.ToLower(site))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			r          RunSummary
			startedAt  string
			durationMs int64
		)
		if err := rows.Scan(&r.ID, &r.Site, &r.StartURL, &startedAt,
			&r.Stats.PagesCrawled, &r.Stats.PagesFailed, &durationMs,
			&r.Stats.Emails, &r.Stats.Phones, &r.Stats.LinkedIn, &r.Stats.Total); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = parseTimestamp(startedAt)
		r.Stats.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads a stored run. The returned report's rows come from the
// contacts table; its duration has millisecond precision.
func (hdb *DB) GetRun(ctx context.Context, id string) (*model.ScrapeReport, error) {
	var (
		reportJSON string
		durationMs int64
	)
	err := hdb.db.QueryRowContext(ctx, `SELECT report_json, duration_ms FROM runs WHERE id = ?`, id).
		Scan(&reportJSON, &durationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.ScrapeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	report.Stats.Duration = time.Duration(durationMs) * time.Millisecond

	rows, err := hdb.Rows(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Rows = rows
	return &report, nil
}

// LatestRuns loads the n most recent runs of site, newest first.
func (hdb *DB) LatestRuns(ctx context.Context, site string, n int) ([]*model.ScrapeReport, error) {
	summaries, err := hdb.ListRuns(ctx, site)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(summaries) > n {
		summaries = summaries[:n]
	}

	reports := make([]*model.ScrapeReport, 0, len(summaries))
	for _, s := range summaries {
		r, err := hdb.GetRun(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Rows returns the stored result rows of a run in their original order.
func (hdb *DB) Rows(ctx context.Context, runID string) ([]model.ResultRow, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT contact_type, value, COALESCE(name, ''), COALESCE(job_title, ''), COALESCE(source_url, '')
	FROM contacts
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	result := make([]model.ResultRow, 0)
	for rows.Next() {
		var (
			r           model.ResultRow
			contactType string
		)
		if err := rows.Scan(&contactType, &r.Value, &r.Name, &r.JobTitle, &r.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		r.ContactType = model.ContactType(contactType)
		result = append(result, r)
	}
	return result, rows.Err()
}

// Compare diffs the rows of two stored runs on (contact type, value).
func (hdb *DB) Compare(ctx context.Context, olderID, newerID string) (aggregate.Diff, error) {
	older, err := hdb.runRows(ctx, olderID)
	if err != nil {
		return aggregate.Diff{}, err
	}
	newer, err := hdb.runRows(ctx, newerID)
	if err != nil {
		return aggregate.Diff{}, err
	}
	return aggregate.Compare(older, newer), nil
}

// runRows is Rows for a run that must exist.
func (hdb *DB) runRows(ctx context.Context, id string) ([]model.ResultRow, error) {
	var exists int
	err := hdb.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return hdb.Rows(ctx, id)
}
