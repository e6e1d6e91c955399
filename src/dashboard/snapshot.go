package dashboard

import (
	"sync"
	"time"
)

// Snapshot holds the rendered page bytes behind a read/write lock.
// Request handlers only ever read; the refresh path swaps the whole
// page in one step, so a reader always sees a complete document.
type Snapshot struct {
	page       []byte
	renderedAt time.Time
	mu         sync.RWMutex
}

// NewSnapshot creates a Snapshot holding the given page.
func NewSnapshot(page []byte) *Snapshot {
	return &Snapshot{page: page, renderedAt: time.Now()}
}

// Set replaces the served page.
func (s *Snapshot) Set(page []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.renderedAt = time.Now()
}

// Page returns the current page bytes.
func (s *Snapshot) Page() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// RenderedAt returns when the current page was produced.
func (s *Snapshot) RenderedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderedAt
}
