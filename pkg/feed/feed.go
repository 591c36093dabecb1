// Package feed maintains a live, deduplicated event timeline on the client
// side: new events arrive from an SSE tail and are prepended, older pages
// are fetched on demand and appended. No event id ever appears twice.
package feed

import (
	"context"
	"sync"

	"github.com/beaver-systems/beaver/internal/models"
)

// Filters are the query parameters a feed is pinned to. Changing them
// resets the feed; a running tail never has its filters mutated in place.
type Filters struct {
	Search    string
	StartDate string
	EndDate   string
	Tags      []models.TagFilter
}

// Feed is a concurrency-safe merge buffer between a tail stream and
// load-more pagination.
type Feed struct {
	mu          sync.Mutex
	items       []models.Event
	seen        map[int64]struct{}
	cursor      int64
	filters     Filters
	cancel      context.CancelFunc
	generation  uint64
	loadingMore bool
}

// New creates an empty feed with the given filters. cursor seeds the tail
// position, usually the server's current max event id.
func New(filters Filters, cursor int64) *Feed {
	return &Feed{
		seen:    make(map[int64]struct{}),
		cursor:  cursor,
		filters: filters,
	}
}

// Items returns a copy of the current timeline, newest first.
func (f *Feed) Items() []models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Event(nil), f.items...)
}

// Cursor returns the highest event id the feed has observed from the tail.
func (f *Feed) Cursor() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Filters returns the filters the feed is currently pinned to.
func (f *Feed) Filters() Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

// Len returns the number of buffered events.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// BindStream registers the cancel func of the tail task feeding this feed,
// so SetFilters and Close can tear it down. Any previous stream is
// cancelled first.
func (f *Feed) BindStream(cancel context.CancelFunc) {
	f.mu.Lock()
	prev := f.cancel
	f.cancel = cancel
	f.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// ApplyTail merges one tail frame. Already-seen ids are dropped, the rest
// are prepended in the frame's own order, and the cursor advances to the
// highest id delivered. Empty heartbeat frames are no-ops.
func (f *Feed) ApplyTail(batch []models.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fresh := make([]models.Event, 0, len(batch))
	for _, e := range batch {
		if _, dup := f.seen[e.ID]; dup {
			continue
		}
		f.seen[e.ID] = struct{}{}
		fresh = append(fresh, e)
		if e.ID > f.cursor {
			f.cursor = e.ID
		}
	}
	if len(fresh) > 0 {
		f.items = append(fresh, f.items...)
	}
}

// BeginLoadMore claims the single load-more slot. It returns the generation
// token to pass to ApplyOlder and false when a load is already running. On
// an empty feed beforeID is 0, which requests the first page.
func (f *Feed) BeginLoadMore() (uint64, int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadingMore {
		return 0, 0, false
	}
	var beforeID int64
	if n := len(f.items); n > 0 {
		beforeID = f.items[n-1].ID
	}
	f.loadingMore = true
	return f.generation, beforeID, true
}

// ApplyOlder appends one older page fetched under the given generation
// token. Pages from before a filter reset carry a stale token and are
// dropped wholesale. Returns how many events were actually appended.
func (f *Feed) ApplyOlder(gen uint64, batch []models.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// The filters changed while this page was in flight.
		return 0
	}
	f.loadingMore = false

	appended := 0
	for _, e := range batch {
		if _, dup := f.seen[e.ID]; dup {
			continue
		}
		f.seen[e.ID] = struct{}{}
		f.items = append(f.items, e)
		appended++
	}
	return appended
}

// CancelLoadMore releases the load-more slot after a failed fetch.
func (f *Feed) CancelLoadMore(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen == f.generation {
		f.loadingMore = false
	}
}

// SetFilters replaces the filters and resets the feed: the bound stream is
// cancelled, items and seen ids are cleared, the cursor rewinds to the
// given seed and the generation is bumped so stale load-more responses are
// ignored. The caller starts a new tail task afterwards.
func (f *Feed) SetFilters(filters Filters, cursor int64) {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.filters = filters
	f.items = nil
	f.seen = make(map[int64]struct{})
	f.cursor = cursor
	f.generation++
	f.loadingMore = false
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Close cancels the bound stream, if any.
func (f *Feed) Close() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
