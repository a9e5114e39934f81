// Package paging tracks page state over a paged task-fetch collaborator.
// It supports two access patterns against the same fetcher: discrete
// page navigation (state replaced) and infinite accumulation (pages
// appended for scroll-style consumers).
package paging

import (
	"context"
	"math"
	"sync"

	"taskdeck/internal/model"
)

// Page is one fetched page of tasks plus collection-level metadata.
type Page struct {
	Tasks      []model.Task
	Number     int
	TotalCount int
	TotalPages int
	HasMore    bool
}

// Fetcher retrieves one page from the underlying task-query service.
type Fetcher func(ctx context.Context, page, size int) (Page, error)

// Pager owns the accumulated task list and the pagination cursor. Every
// fetch is tagged with the generation it was issued under; Reset bumps the
// generation so a stale response arriving afterwards is discarded instead
// of overwriting state that belongs to the new window. A failed fetch
// leaves previously loaded data untouched.
type Pager struct {
	mu sync.Mutex

	fetch    Fetcher
	pageSize int

	generation uint64
	inFlight   bool
	accumulate bool

	tasks      []model.Task
	current    int
	total      int
	totalPages int
}

// New creates a pager over fetch with the given page size.
func New(fetch Fetcher, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Pager{fetch: fetch, pageSize: pageSize}
}

// Reset clears accumulated state and swaps in a new fetcher, typically
// because the reporting window changed. In-flight responses issued before
// the reset are dropped when they land.
func (p *Pager) Reset(fetch Fetcher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	if fetch != nil {
		p.fetch = fetch
	}
	p.tasks = nil
	p.current = 0
	p.total = 0
	p.totalPages = 0
}

// LoadNext fetches the page after the last accumulated one and appends it.
// A call while a fetch for the same cursor is pending is a no-op. The first
// call loads page 1.
func (p *Pager) LoadNext(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil
	}
	if p.totalPages > 0 && p.current >= p.totalPages {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	gen := p.generation
	next := p.current + 1
	fetch := p.fetch
	size := p.pageSize
	p.mu.Unlock()

	page, err := fetch(ctx, next, size)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if gen != p.generation {
		// Window changed while the fetch was in flight.
		return nil
	}
	if err != nil {
		return err
	}
	p.accumulate = true
	p.tasks = append(p.tasks, page.Tasks...)
	p.current = next
	p.applyMeta(page)
	return nil
}

// LoadPage fetches page n and replaces the current state with it. Used by
// table consumers that jump between pages.
func (p *Pager) LoadPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	gen := p.generation
	fetch := p.fetch
	size := p.pageSize
	p.mu.Unlock()

	page, err := fetch(ctx, n, size)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return nil
	}
	if err != nil {
		return err
	}
	p.accumulate = false
	p.tasks = append([]model.Task(nil), page.Tasks...)
	p.current = n
	p.applyMeta(page)
	return nil
}

func (p *Pager) applyMeta(page Page) {
	p.total = page.TotalCount
	p.totalPages = page.TotalPages
	if p.totalPages == 0 && p.total > 0 {
		p.totalPages = int(math.Ceil(float64(p.total) / float64(p.pageSize)))
	}
}

// Tasks returns a copy of the currently loaded task list.
func (p *Pager) Tasks() []model.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Task(nil), p.tasks...)
}

// HasMore reports whether more tasks remain beyond what is loaded: for
// accumulation, loaded count against the total; for discrete navigation,
// current page against total pages.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accumulate {
		return len(p.tasks) < p.total
	}
	return p.current < p.totalPages
}

// Current returns the page number of the last successful fetch.
func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// TotalPages returns the page count reported by the last fetch.
func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages
}

// Total returns the collection size reported by the last fetch.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}
