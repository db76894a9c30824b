package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/crawler"
	"github.com/nao1215/leadscan/internal/model"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Delay = 0
	opts.Logger = discardLogger()
	return opts
}

func TestScrapeSinglePage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><p>Contact a@b.com or 555-123-4567</p></body></html>`))
	}))
	defer server.Close()

	report, err := Scrape(context.Background(), server.URL, testOptions())
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	if report.ID == "" {
		t.Error("expected a run ID")
	}
	if report.Stats.PagesCrawled != 1 {
		t.Errorf("PagesCrawled = %d, want 1", report.Stats.PagesCrawled)
	}
	want := []model.ResultRow{
		{ContactType: model.ContactTypeEmail, Value: "a@b.com", SourceURL: server.URL + "/"},
		{ContactType: model.ContactTypePhone, Value: "5551234567", SourceURL: server.URL + "/"},
	}
	if len(report.Rows) != len(want) {
		t.Fatalf("rows = %+v, want %+v", report.Rows, want)
	}
	for i := range want {
		got := report.Rows[i]
		if got.ContactType != want[i].ContactType || got.Value != want[i].Value || got.SourceURL != want[i].SourceURL {
			t.Errorf("row %d = %+v, want %+v", i, got, want[i])
		}
	}
	if report.Status() != model.StatusSuccess {
		t.Errorf("Status() = %q", report.Status())
	}
}

func TestScrapeDeduplicatesAcrossPages(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Fetcher = testSite()

	report, err := Scrape(context.Background(), "https://acme.com", opts)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	var info int
	for _, r := range report.Rows {
		if r.Value == "info@acme.com" {
			info++
			if r.SourceURL != "https://acme.com/" {
				t.Errorf("kept %q, want the first page", r.SourceURL)
			}
		}
	}
	if info != 1 {
		t.Errorf("info@acme.com appears %d times: %+v", info, report.Rows)
	}

	var jane bool
	for _, r := range report.Rows {
		if r.Value == "jane.doe@acme.com" && r.Name == "Jane Doe" && r.JobTitle == "Chief Executive Officer" {
			jane = true
		}
	}
	if !jane {
		t.Errorf("card contact missing: %+v", report.Rows)
	}
}

func TestScrapeNoResults(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Fetcher = mapFetcher{"https://empty.com/": "<html><body><p>Nothing here.</p></body></html>"}

	report, err := Scrape(context.Background(), "https://empty.com", opts)
	if err != nil {
		t.Fatalf("an empty result is not an error: %v", err)
	}
	if report.HasResults() || report.Status() != model.StatusNoResults {
		t.Errorf("rows = %+v", report.Rows)
	}
	if report.Rows == nil {
		t.Error("no results must be an empty slice, not nil")
	}
	if report.Stats.PagesCrawled != 1 {
		t.Errorf("PagesCrawled = %d", report.Stats.PagesCrawled)
	}
}

func TestScrapeUnreachableSite(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Fetcher = mapFetcher{}

	report, err := Scrape(context.Background(), "https://down.example", opts)
	if err != nil {
		t.Fatalf("fetch failures are not fatal: %v", err)
	}
	if report.Stats.PagesCrawled != 0 || report.HasResults() {
		t.Errorf("stats = %+v", report.Stats)
	}
}

func TestScrapeErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid start URL", func(t *testing.T) {
		t.Parallel()

		_, err := Scrape(context.Background(), "not a url", testOptions())
		var se *ScrapeError
		if !errors.As(err, &se) {
			t.Fatalf("expected *ScrapeError, got %v", err)
		}
		if !errors.Is(err, crawler.ErrInvalidStartURL) {
			t.Errorf("expected ErrInvalidStartURL, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := testOptions()
		opts.Fetcher = testSite()
		report, err := Scrape(ctx, "https://acme.com", opts)
		if !errors.Is(err, context.Canceled) || report != nil {
			t.Errorf("Scrape() = %v, %v", report, err)
		}
	})

	t.Run("persist failure", func(t *testing.T) {
		t.Parallel()

		opts := testOptions()
		opts.Fetcher = testSite()
		opts.Store = &memoryStore{err: errors.New("read-only")}
		if _, err := Scrape(context.Background(), "https://acme.com", opts); err == nil {
			t.Error("expected the save error")
		}
	})
}

func TestScrapePersists(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	opts := testOptions()
	opts.Fetcher = testSite()
	opts.Store = store

	report, err := Scrape(context.Background(), "https://acme.com", opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(store.saved) != 1 || store.saved[0].ID != report.ID {
		t.Errorf("saved = %v", store.saved)
	}
	if got := NewScrapePipeline(opts).StepNames(); !slices.Equal(got, []string{"crawl", "aggregate", "persist"}) {
		t.Errorf("StepNames() = %v", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MaxPages = 20
	cfg.CrawlDelay = 500 * time.Millisecond
	cfg.SiteConfigs = &config.File{
		Defaults: config.SiteConfig{Headers: map[string]string{"Accept-Language": "de"}},
		Sites: map[string]config.SiteConfig{
			"slow.example": {
				MaxPages:       5,
				Delay:          3 * time.Second,
				IgnorePatterns: []string{"/blog/*"},
			},
		},
	}

	slow := OptionsFromConfig(cfg, "https://SLOW.example/contact")
	if slow.MaxPages != 5 || slow.Delay != 3*time.Second {
		t.Errorf("site overrides not applied: %+v", slow)
	}
	if !slices.Equal(slow.IgnorePatterns, []string{"/blog/*"}) || slow.Headers["Accept-Language"] != "de" {
		t.Errorf("site settings not applied: %+v", slow)
	}

	other := OptionsFromConfig(cfg, "https://other.example")
	if other.MaxPages != 20 || other.Delay != 500*time.Millisecond {
		t.Errorf("global settings not applied: %+v", other)
	}
	if cfg.MaxPages != 20 {
		t.Error("OptionsFromConfig must not modify the config")
	}
}
