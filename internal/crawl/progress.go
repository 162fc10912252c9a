package crawl

import (
	"fmt"
	"sync"
)

// ProgressFunc receives crawl progress as a percentage and a human-readable stage message.
type ProgressFunc func(percent int, message string)

// progress serializes callbacks so reported percentages never go backwards,
// even when pages finish concurrently.
type progress struct {
	mu    sync.Mutex
	fn    ProgressFunc
	last  int
	done  int
	total int
}

func newProgress(fn ProgressFunc) *progress {
	return &progress{fn: fn}
}

func (p *progress) report(percent int, message string) {
	if p == nil || p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emit(percent, message)
}

func (p *progress) emit(percent int, message string) {
	if percent < p.last {
		percent = p.last
	}
	percent = min(percent, 100)
	p.last = percent
	p.fn(percent, message)
}

func (p *progress) setTotal(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.total = n
	p.mu.Unlock()
}

// pageDone advances the 10..90 band by one page.
func (p *progress) pageDone() {
	if p == nil || p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	total := max(p.total, 1)
	p.emit(10+p.done*80/total, fmt.Sprintf("Scanning pages (%d/%d)", p.done, p.total))
}
