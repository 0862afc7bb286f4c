package sessions

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

// MemoryStore keeps sessions in memory, evicting the least recently used
// once MaxSessions is exceeded and any session idle for longer than TTL.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.Mutex

	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	lru *list.List               // front=MRU
	m   map[string]*list.Element // id -> element(Value=*item)
}

type item struct {
	s        *domain.SessionState
	lastUsed time.Time
}

func NewMemoryStore(ttl time.Duration, maxSessions int) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxSessions <= 0 {
		maxSessions = 4096
	}
	return &MemoryStore{
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		lru:         list.New(),
		m:           map[string]*list.Element{},
	}
}

func (st *MemoryStore) NewSession() *domain.SessionState {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)

	s := domain.NewSessionState(uuid.Must(uuid.NewV7()).String(), now)
	st.m[s.ID] = st.lru.PushFront(&item{s: s, lastUsed: now})

	st.evictOverLimitLocked()
	return s
}

func (st *MemoryStore) Get(id string) (*domain.SessionState, bool) {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)

	e := st.m[id]
	if e == nil {
		return nil, false
	}
	it := e.Value.(*item)
	it.lastUsed = now
	st.lru.MoveToFront(e)
	return it.s, true
}

// Len reports the number of live sessions.
func (st *MemoryStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lru.Len()
}

func (st *MemoryStore) evictExpiredLocked(now time.Time) {
	for e := st.lru.Back(); e != nil; {
		prev := e.Prev()
		it := e.Value.(*item)
		if now.Sub(it.lastUsed) <= st.ttl {
			// Everything closer to the front was used more recently.
			return
		}
		st.deleteElemLocked(e)
		e = prev
	}
}

func (st *MemoryStore) evictOverLimitLocked() {
	for st.lru.Len() > st.maxSessions {
		st.deleteElemLocked(st.lru.Back())
	}
}

func (st *MemoryStore) deleteElemLocked(e *list.Element) {
	it := e.Value.(*item)
	// Ending a session destroys its history.
	it.s.History.Clear()
	delete(st.m, it.s.ID)
	st.lru.Remove(e)
}
