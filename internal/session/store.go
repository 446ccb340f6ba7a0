package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/pdfa11y/internal/a11y"
)

// Store is the session map: create, get, and replace under a per-session
// lock.
type Store struct {
	backend Backend
	locks   keyedMutex
	now     func() time.Time
	newID   func() string
}

// NewStore wraps backend. A nil backend means NewMemoryBackend().
func NewStore(backend Backend) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{
		backend: backend,
		locks:   keyedMutex{locks: make(map[string]*keyedLock)},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create stores rec under a fresh random id and returns the stored copy.
func (s *Store) Create(rec Record) *Record {
	rec.ID = s.newID()
	rec.CreatedAt = s.now()
	rec.Revision = 0
	rec.LastRemediatedAt = time.Time{}
	s.backend.Put(&rec)
	return &rec
}

// Get returns the current record, or *a11y.NotFoundError.
func (s *Store) Get(id string) (*Record, error) {
	rec, ok := s.backend.Get(id)
	if !ok {
		return nil, &a11y.NotFoundError{SessionID: id}
	}
	return rec, nil
}

// Len is the number of live sessions.
func (s *Store) Len() int { return s.backend.Len() }

// Mutate serializes changes to one session. fn receives the current
// record and returns its replacement; returning an error leaves the
// session unchanged. The replacement keeps the id and creation time of
// the current record and gets the next revision.
func (s *Store) Mutate(id string, fn func(cur *Record) (*Record, error)) (*Record, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	cur, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	next, err := fn(cur)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, fmt.Errorf("session %s: mutation returned no record", id)
	}
	if next == cur {
		return nil, fmt.Errorf("session %s: mutation must return a new record", id)
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.Revision = cur.Revision + 1
	next.LastRemediatedAt = s.now()
	s.backend.Put(next)
	return next, nil
}

// Replace swaps in rec for id without running a mutation function.
func (s *Store) Replace(id string, rec *Record) (*Record, error) {
	return s.Mutate(id, func(*Record) (*Record, error) { return rec, nil })
}

// keyedMutex hands out one mutex per key. The map guard is held only to
// find or drop an entry, never while a key is locked.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
