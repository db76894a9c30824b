package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/leadscan/internal/model"
)

func batchFetcher() mapFetcher {
	return mapFetcher{
		"https://a.example/": "<p>sales@a.example</p>",
		"https://b.example/": "<p>hello@b.example</p>",
		"https://c.example/": "<p>Nothing</p>",
	}
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	optionsFor := func(string) Options { return testOptions() }

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(optionsFor)
		if bp.concurrency != 4 {
			t.Errorf("expected default concurrency 4, got %d", bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(optionsFor, WithConcurrency(0))
		if bp.concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests batch processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("processes all sites in input order", func(t *testing.T) {
		t.Parallel()

		optionsFor := func(string) Options {
			opts := testOptions()
			opts.Fetcher = batchFetcher()
			return opts
		}
		bp := NewBatchProcessor(optionsFor, WithConcurrency(2), WithBatchLogger(discardLogger()))

		urls := []string{"https://a.example", "bad url", "https://b.example", "https://c.example"}
		results, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("ProcessBatch() error = %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("got %d results", len(results))
		}

		if results[0].Err != nil || results[0].Report.Rows[0].Value != "sales@a.example" {
			t.Errorf("result 0 = %+v", results[0])
		}
		var se *ScrapeError
		if !errors.As(results[1].Err, &se) || results[1].Report != nil {
			t.Errorf("bad URL should fail on its own: %+v", results[1])
		}
		if results[2].Report == nil || results[2].Report.Rows[0].Value != "hello@b.example" {
			t.Errorf("result 2 = %+v", results[2])
		}
		if results[3].Report == nil || results[3].Report.Status() != model.StatusNoResults {
			t.Errorf("result 3 = %+v", results[3])
		}
		for i, r := range results {
			if r.URL != urls[i] {
				t.Errorf("result %d URL = %q", i, r.URL)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		slow := fetcherFunc(func(ctx context.Context, url string) (*model.Page, error) {
			n := current.Add(1)
			defer current.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return &model.Page{URL: url, FinalURL: url, Body: []byte("<p>x</p>")}, nil
		})
		optionsFor := func(string) Options {
			opts := testOptions()
			opts.Fetcher = slow
			return opts
		}
		bp := NewBatchProcessor(optionsFor, WithConcurrency(2), WithBatchLogger(discardLogger()))

		urls := []string{"https://1.example", "https://2.example", "https://3.example", "https://4.example", "https://5.example"}
		if _, err := bp.ProcessBatch(context.Background(), urls); err != nil {
			t.Fatal(err)
		}
		if peak.Load() > 2 {
			t.Errorf("peak concurrency %d exceeds limit 2", peak.Load())
		}
	})

	t.Run("callback receives every result", func(t *testing.T) {
		t.Parallel()

		optionsFor := func(string) Options {
			opts := testOptions()
			opts.Fetcher = batchFetcher()
			return opts
		}
		bp := NewBatchProcessor(optionsFor, WithBatchLogger(discardLogger()))

		var mu sync.Mutex
		seen := map[int]string{}
		err := bp.ProcessBatchWithCallback(context.Background(),
			[]string{"https://a.example", "https://b.example"},
			func(r BatchResult, i int) {
				mu.Lock()
				defer mu.Unlock()
				seen[i] = r.URL
			})
		if err != nil {
			t.Fatal(err)
		}
		if seen[0] != "https://a.example" || seen[1] != "https://b.example" {
			t.Errorf("seen = %v", seen)
		}
	})

	t.Run("cancelled batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func(string) Options { return testOptions() }, WithBatchLogger(discardLogger()))
		results, err := bp.ProcessBatch(ctx, []string{"https://a.example"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if results[0].Err == nil || results[0].URL != "https://a.example" {
			t.Errorf("unstarted site must carry the error: %+v", results[0])
		}
	})
}

type fetcherFunc func(ctx context.Context, url string) (*model.Page, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (*model.Page, error) {
	return f(ctx, url)
}
