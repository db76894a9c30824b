package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/leadscan/internal/crawler"
	"github.com/nao1215/leadscan/internal/model"
	"github.com/nao1215/leadscan/internal/pipeline"
	"github.com/nao1215/leadscan/internal/report"
	"github.com/nao1215/leadscan/internal/server"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// siteFetcher serves pages from memory and counts fetches.
type siteFetcher struct {
	pages map[string]string
	calls atomic.Int32
}

func (f *siteFetcher) Fetch(_ context.Context, u string) (*model.Page, error) {
	f.calls.Add(1)
	body, ok := f.pages[u]
	if !ok {
		return nil, fmt.Errorf("%w: 404", crawler.ErrHTTPStatus)
	}
	return &model.Page{URL: u, FinalURL: u, StatusCode: http.StatusOK, ContentType: "text/html", Body: []byte(body)}, nil
}

func leadSite() *siteFetcher {
	return &siteFetcher{pages: map[string]string{
		"https://acme.com/": `<html><body><p>Write to info@acme.com</p></body></html>`,
	}}
}

func emptySite() *siteFetcher {
	return &siteFetcher{pages: map[string]string{
		"https://empty.com/": `<html><body><p>Nothing here.</p></body></html>`,
	}}
}

// chainSite links every page to the next one.
func chainSite(n int) *siteFetcher {
	pages := make(map[string]string, n)
	for i := range n {
		pages[fmt.Sprintf("https://chain.com/p%d", i)] = fmt.Sprintf(`<a href="/p%d">next</a>`, i+1)
	}
	pages["https://chain.com/"] = `<a href="/p0">start</a>`
	return &siteFetcher{pages: pages}
}

func newTestServer(t *testing.T, fetcher crawler.Fetcher, opts ...server.Option) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := []server.Option{
		server.WithLogger(logger),
		server.WithOptions(func(string) pipeline.Options {
			o := pipeline.DefaultOptions()
			o.Fetcher = fetcher
			return o
		}),
	}
	return server.New(append(base, opts...)...).Handler()
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, h http.Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return got
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, leadSite())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, leadSite())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), `name="max_pages"`) {
		t.Error("form is missing the max_pages field")
	}
}

func TestAPIScrape(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, leadSite())
		w := postJSON(t, h, `{"url":"https://acme.com","max_pages":5,"delay":0}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var env report.Envelope
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatal(err)
		}
		if env.Status != model.StatusSuccess {
			t.Errorf("status = %q", env.Status)
		}
		if len(env.Data) != 1 {
			t.Fatalf("data = %+v", env.Data)
		}
		if row := env.Data[0]; row.ContactType != model.ContactTypeEmail || row.Value != "info@acme.com" {
			t.Errorf("row = %+v", row)
		}
		if !strings.Contains(w.Body.String(), `"Contact Type":"Email"`) {
			t.Errorf("rows must use the column names as keys: %s", w.Body.String())
		}
		if env.Stats == nil || env.Stats.ContactCounts == nil || env.Stats.Emails != 1 || env.Stats.Total != 1 || env.Stats.PagesCrawled != 1 {
			t.Errorf("stats = %+v", env.Stats)
		}
	})

	t.Run("defaults apply when optional fields are absent", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, leadSite())
		w := postJSON(t, h, `{"url":"https://acme.com"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("no results", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, emptySite())
		w := postJSON(t, h, `{"url":"https://empty.com","delay":0}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		got := decode(t, w)
		if got["status"] != "no_results" || got["message"] != report.NoContactsMessage {
			t.Errorf("body = %v", got)
		}
		stats, _ := got["stats"].(map[string]any)
		if stats["pages_crawled"] != float64(1) {
			t.Errorf("stats = %v", stats)
		}
		if _, ok := stats["emails"]; ok {
			t.Error("no_results stats must not carry contact counts")
		}
	})

	t.Run("max_pages bounds the crawl", func(t *testing.T) {
		t.Parallel()

		site := chainSite(10)
		h := newTestServer(t, site)
		w := postJSON(t, h, `{"url":"https://chain.com/","max_pages":3,"delay":0}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got := site.calls.Load(); got != 3 {
			t.Errorf("fetch calls = %d, want 3", got)
		}
	})

	t.Run("bad requests", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			body string
			want string
		}{
			{name: "missing url", body: `{"max_pages":3}`, want: server.MissingURLMessage},
			{name: "empty body", body: ``, want: server.MissingURLMessage},
			{name: "blank url", body: `{"url":"  "}`, want: server.MissingURLMessage},
			{name: "zero max_pages", body: `{"url":"https://acme.com","max_pages":0}`, want: "max_pages"},
			{name: "negative delay", body: `{"url":"https://acme.com","delay":-1}`, want: "delay"},
			{name: "malformed json", body: `{"url":`, want: "Invalid request body"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				site := leadSite()
				w := postJSON(t, newTestServer(t, site), tt.body)
				if w.Code != http.StatusBadRequest {
					t.Fatalf("status = %d", w.Code)
				}
				errMsg, _ := decode(t, w)["error"].(string)
				if !strings.Contains(errMsg, tt.want) {
					t.Errorf("error = %q, want it to contain %q", errMsg, tt.want)
				}
				if site.calls.Load() != 0 {
					t.Error("a rejected request must not crawl")
				}
			})
		}
	})

	t.Run("scrape failure", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, leadSite())
		w := postJSON(t, h, `{"url":"ftp://acme.com"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
		got := decode(t, w)
		msg, _ := got["message"].(string)
		if got["status"] != "error" || !strings.Contains(msg, "invalid start URL") {
			t.Errorf("body = %v", got)
		}
	})
}

func TestAPIScrapeRequestTimeout(t *testing.T) {
	t.Parallel()

	slow := crawlerFunc(func(ctx context.Context, _ string) (*model.Page, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	h := newTestServer(t, slow, server.WithRequestTimeout(20*time.Millisecond))

	start := time.Now()
	w := postJSON(t, h, `{"url":"https://slow.com","delay":0}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if time.Since(start) > 5*time.Second {
		t.Error("the request timeout did not stop the crawl")
	}
}

type crawlerFunc func(ctx context.Context, url string) (*model.Page, error)

func (f crawlerFunc) Fetch(ctx context.Context, url string) (*model.Page, error) {
	return f(ctx, url)
}

func TestFormScrape(t *testing.T) {
	t.Parallel()

	t.Run("returns a workbook", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, leadSite())
		w := postForm(t, h, url.Values{"url": {"https://acme.com"}, "max_pages": {"5"}, "delay": {"0"}})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != report.ExcelContentType {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `attachment; filename="leads.xlsx"`) {
			t.Errorf("Content-Disposition = %q", cd)
		}

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		if err != nil {
			t.Fatalf("invalid workbook: %v", err)
		}
		defer f.Close()
		rows, err := f.GetRows(report.SheetLeads)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || rows[1][1] != "info@acme.com" {
			t.Errorf("leads = %v", rows)
		}
	})

	t.Run("no results", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, emptySite())
		w := postForm(t, h, url.Values{"url": {"https://empty.com"}, "delay": {"0"}})
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", w.Code)
		}
		if got, want := w.Body.String(), report.NoResultsMessage(1); got != want {
			t.Errorf("body = %q, want %q", got, want)
		}
	})

	t.Run("scrape failure", func(t *testing.T) {
		t.Parallel()

		h := newTestServer(t, leadSite())
		w := postForm(t, h, url.Values{"url": {"mailto:info@acme.com"}})
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.HasPrefix(w.Body.String(), "Something went wrong while scraping: ") {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("bad input", func(t *testing.T) {
		t.Parallel()

		tests := []url.Values{
			{},
			{"url": {"https://acme.com"}, "max_pages": {"many"}},
			{"url": {"https://acme.com"}, "max_pages": {"-2"}},
			{"url": {"https://acme.com"}, "delay": {"soon"}},
		}
		for _, values := range tests {
			w := postForm(t, newTestServer(t, leadSite()), values)
			if w.Code != http.StatusBadRequest {
				t.Errorf("%v: status = %d", values, w.Code)
			}
		}
	})
}

func TestListenAndServe(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(server.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
