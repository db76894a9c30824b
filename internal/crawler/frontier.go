package crawler

import "sync"

// Priority is the class of a frontier entry.
type Priority int

const (
	// PriorityNormal entries are crawled after every known high-value entry.
	PriorityNormal Priority = iota
	// PriorityHigh entries are likely to contain contact information.
	PriorityHigh
)

// Frontier is the queue of URLs waiting to be crawled.
//
// It holds two FIFO sub-queues and always drains the high-value one first,
// so a normal URL is never handed out while a known high-value URL waits.
// A URL is accepted at most once for the lifetime of the frontier.
//
// Next blocks while the queue is empty but other workers are still
// processing pages that may discover more links; it reports false once the
// queue is empty with nothing in flight, or after Close.
type Frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	high     []string
	normal   []string
	queued   map[string]bool
	inFlight int
	closed   bool
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{queued: make(map[string]bool)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push enqueues url with the given priority.
// It returns false when the URL was queued before or the frontier is closed.
func (f *Frontier) Push(url string, p Priority) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.queued[url] {
		return false
	}
	f.queued[url] = true
	if p == PriorityHigh {
		f.high = append(f.high, url)
	} else {
		f.normal = append(f.normal, url)
	}
	f.cond.Signal()
	return true
}

// Next blocks until a URL is available and marks it in flight.
// Every URL returned by Next must be released with Done.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.closed {
			return "", false
		}
		if url, ok := f.popLocked(); ok {
			f.inFlight++
			return url, true
		}
		if f.inFlight == 0 {
			// Drained: nothing queued and nobody left to discover more.
			f.closed = true
			f.cond.Broadcast()
			return "", false
		}
		f.cond.Wait()
	}
}

// Done releases a URL obtained from Next.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	f.cond.Broadcast()
}

// Close stops the frontier. Waiting and future Next calls return false.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

// Len returns the number of URLs waiting to be handed out.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.high) + len(f.normal)
}

func (f *Frontier) popLocked() (string, bool) {
	if len(f.high) > 0 {
		url := f.high[0]
		f.high = f.high[1:]
		return url, true
	}
	if len(f.normal) > 0 {
		url := f.normal[0]
		f.normal = f.normal[1:]
		return url, true
	}
	return "", false
}
