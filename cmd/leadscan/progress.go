package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/nao1215/leadscan/internal/crawler"
)

// progress shows a spinner with the crawl status of one site.
// The spinner only animates when attached to a terminal.
type progress struct {
	sp     *spinner.Spinner
	target string
}

func newProgress(w io.Writer, target string) *progress {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	sp.Suffix = " scraping " + target
	return &progress{sp: sp, target: target}
}

func (p *progress) start() {
	p.sp.Start()
}

// update is a crawler progress callback. It may be called from several
// crawl workers.
func (p *progress) update(ev crawler.ProgressEvent) {
	status := fmt.Sprintf(" scraping %s: %d pages, %d queued, last %s", p.target, ev.Pages, ev.Queued, ev.URL)
	if ev.Err != nil {
		status += " (failed)"
	}
	p.sp.Lock()
	p.sp.Suffix = status
	p.sp.Unlock()
}

func (p *progress) stop() {
	p.sp.Stop()
}
