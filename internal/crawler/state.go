package crawler

import (
	"sync"
	"sync/atomic"

	"github.com/nao1215/leadscan/internal/model"
)

// RunState is the mutable state of a single crawl run.
// It is created fresh by every Crawl call and safe for concurrent use.
type RunState struct {
	domain string

	mu       sync.Mutex
	visited  map[string]bool
	contacts []model.ContactRecord
	crawled  []string
	failed   []string
}

// NewRunState creates the state of a run over domain (the start URL's host).
func NewRunState(domain string) *RunState {
	return &RunState{
		domain:   domain,
		visited:  make(map[string]bool),
		contacts: make([]model.ContactRecord, 0),
	}
}

// Domain returns the host every crawled URL must share.
func (s *RunState) Domain() string {
	return s.domain
}

// TryVisit marks url as visited and reports whether it was new.
// The check and the mark happen atomically, so two workers can never both
// claim the same URL.
func (s *RunState) TryVisit(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited[url] {
		return false
	}
	s.visited[url] = true
	return true
}

// IsVisited reports whether url has been claimed.
func (s *RunState) IsVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visited[url]
}

// AddPage records a successfully fetched page and its contacts.
func (s *RunState) AddPage(url string, contacts []model.ContactRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crawled = append(s.crawled, url)
	s.contacts = append(s.contacts, contacts...)
}

// AddFailure records a URL whose fetch failed.
func (s *RunState) AddFailure(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, url)
}

// Contacts returns a copy of the accumulated contacts in discovery order.
func (s *RunState) Contacts() []model.ContactRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ContactRecord, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Crawled returns the successfully fetched URLs in fetch order.
func (s *RunState) Crawled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.crawled...)
}

// CrawledCount returns the number of successfully fetched pages.
func (s *RunState) CrawledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.crawled)
}

// Failed returns the URLs whose fetch failed.
func (s *RunState) Failed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.failed...)
}

// budget caps the total number of fetch calls of a run.
type budget struct {
	remaining atomic.Int64
	used      atomic.Int64
}

func newBudget(n int) *budget {
	b := &budget{}
	b.remaining.Store(int64(n))
	return b
}

// acquire reserves one fetch. It returns false once the budget is spent.
func (b *budget) acquire() bool {
	for {
		r := b.remaining.Load()
		if r <= 0 {
			return false
		}
		if b.remaining.CompareAndSwap(r, r-1) {
			b.used.Add(1)
			return true
		}
	}
}

func (b *budget) exhausted() bool {
	return b.remaining.Load() <= 0
}

func (b *budget) spent() int {
	return int(b.used.Load())
}
