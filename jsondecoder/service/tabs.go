package service

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
)

// maxOpenTabs bounds the tabs kept for MCP clients; the least recently used tab is evicted.
const maxOpenTabs = 256

// tabEntry guards a single tab, tabs are not safe for concurrent use.
type tabEntry struct {
	mu       sync.Mutex
	tab      *decoder.Tab
	lastUsed atomic.Uint64
}

// tabStore holds the editor tabs opened by MCP clients, keyed by UUID.
type tabStore struct {
	mu    sync.RWMutex
	tabs  map[string]*tabEntry
	limit int
	clock atomic.Uint64 // use counter ordering entries for eviction
}

func newTabStore(limit int) *tabStore {
	return &tabStore{
		tabs:  make(map[string]*tabEntry),
		limit: limit,
	}
}

// Add stores tab and returns its new ID, evicting the least recently used tab when full.
func (s *tabStore) Add(tab *decoder.Tab) string {
	id := uuid.NewString()
	entry := &tabEntry{tab: tab}
	entry.lastUsed.Store(s.clock.Add(1))

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.limit > 0 && len(s.tabs) >= s.limit {
		s.evictOldest()
	}
	s.tabs[id] = entry
	return id
}

// evictOldest must be called with s.mu held.
func (s *tabStore) evictOldest() {
	var oldestID string
	var oldest uint64
	for id, entry := range s.tabs {
		if used := entry.lastUsed.Load(); oldestID == "" || used < oldest {
			oldestID, oldest = id, used
		}
	}
	delete(s.tabs, oldestID)
	log.Printf("mcp/tabs: evicted least recently used tab %s", oldestID)
}

// With runs fn with exclusive access to the tab. Returns false if the ID is unknown.
func (s *tabStore) With(id string, fn func(tab *decoder.Tab)) bool {
	s.mu.RLock()
	entry, ok := s.tabs[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	entry.lastUsed.Store(s.clock.Add(1))
	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.tab)
	return true
}

// Remove deletes the tab, reporting whether it existed.
func (s *tabStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tabs[id]; !ok {
		return false
	}
	delete(s.tabs, id)
	return true
}

func (s *tabStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tabs)
}
