package intake

import (
	"sync"
	"time"

	"estate_leads_backend/internal/common"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type draftEntry struct {
	mu    sync.Mutex
	draft *Draft
}

// DraftStore keeps drafts in memory and expires them after ttl of inactivity.
// Each draft is mutated under its own lock.
type DraftStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DraftStore{cache: cache.New(ttl, ttl/2), ttl: ttl}
}

func (s *DraftStore) Put(d *Draft) {
	s.cache.Set(d.ID.String(), &draftEntry{draft: d}, s.ttl)
}

// With runs fn on the draft while holding its lock and refreshes its TTL.
func (s *DraftStore) With(id uuid.UUID, fn func(d *Draft) error) error {
	item, found := s.cache.Get(id.String())
	if !found {
		return common.ErrNotFound.WithDetails("Intake session not found or expired.")
	}
	entry := item.(*draftEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.draft); err != nil {
		return err
	}
	s.cache.Set(id.String(), entry, s.ttl)
	return nil
}

func (s *DraftStore) Delete(id uuid.UUID) {
	s.cache.Delete(id.String())
}

func (s *DraftStore) Len() int { return s.cache.ItemCount() }
