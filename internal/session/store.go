// Package session keeps one contact form per visitor, keyed by a random
// session identifier carried in a cookie. Sessions expire after a period of
// inactivity and the least recently used session is evicted when the store
// is full.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/conneroisu/vacuumassist/internal/contact"
)

// Session is one visitor's view of the page.
type Session struct {
	ID        string
	Form      *contact.Form
	CreatedAt time.Time

	accessedAt time.Time
	// LRU doubly-linked list pointers
	prev *Session
	next *Session
}

// Stats reports store activity counters.
type Stats struct {
	Active      int
	Hits        int64
	Misses      int64
	Created     int64
	Evictions   int64
	Expirations int64
}

// Store holds sessions in memory with TTL and LRU eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	head     *Session
	tail     *Session

	ttl         time.Duration
	maxSessions int
	interval    time.Duration
	newForm     func() *contact.Form
	now         func() time.Time

	hits        int64
	misses      int64
	created     int64
	evictions   int64
	expirations int64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithFormFactory sets how forms for new sessions are built.
func WithFormFactory(fn func() *contact.Form) Option {
	return func(s *Store) { s.newForm = fn }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCleanupInterval sets how often expired sessions are swept. A
// non-positive interval disables the background sweep.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Store) { s.interval = d }
}

// NewStore creates a store and starts its cleanup goroutine.
func NewStore(ttl time.Duration, maxSessions int, opts ...Option) *Store {
	if maxSessions <= 0 {
		maxSessions = 1
	}

	s := &Store{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		interval:    time.Minute,
		newForm:     func() *contact.Form { return contact.NewForm() },
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Dummy head and tail keep list operations branch free
	s.head = &Session{}
	s.tail = &Session{}
	s.head.next = s.tail
	s.tail.prev = s.head

	if s.interval > 0 {
		go s.cleanupLoop()
	} else {
		close(s.done)
	}

	return s
}

// Get returns the live session for id and marks it as recently used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&s.hits, 1)
	return sess, true
}

// GetOrCreate returns the live session for id, or a fresh session with a
// new identifier when id is unknown, expired or malformed. The boolean
// reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.lookup(id); ok {
		atomic.AddInt64(&s.hits, 1)
		return sess, false
	}
	atomic.AddInt64(&s.misses, 1)

	for len(s.sessions) >= s.maxSessions && s.tail.prev != s.head {
		lru := s.tail.prev
		s.remove(lru)
		atomic.AddInt64(&s.evictions, 1)
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Form:       s.newForm(),
		CreatedAt:  now,
		accessedAt: now,
	}
	s.sessions[sess.ID] = sess
	s.addToFront(sess)
	atomic.AddInt64(&s.created, 1)

	return sess, true
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	return Stats{
		Active:      s.Len(),
		Hits:        atomic.LoadInt64(&s.hits),
		Misses:      atomic.LoadInt64(&s.misses),
		Created:     atomic.LoadInt64(&s.created),
		Evictions:   atomic.LoadInt64(&s.evictions),
		Expirations: atomic.LoadInt64(&s.expirations),
	}
}

// Cleanup removes every expired session and returns how many were dropped.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	// Walk from the tail: the oldest entries expire first
	for e := s.tail.prev; e != s.head; {
		prev := e.prev
		if now.Sub(e.accessedAt) < s.ttl {
			break
		}
		s.remove(e)
		removed++
		e = prev
	}
	atomic.AddInt64(&s.expirations, int64(removed))
	return removed
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Store) cleanupLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stop:
			return
		}
	}
}

// lookup must be called with mu held.
func (s *Store) lookup(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if now.Sub(sess.accessedAt) >= s.ttl {
		s.remove(sess)
		atomic.AddInt64(&s.expirations, 1)
		return nil, false
	}

	sess.accessedAt = now
	s.moveToFront(sess)
	return sess, true
}

func (s *Store) remove(sess *Session) {
	s.removeFromList(sess)
	delete(s.sessions, sess.ID)
}

func (s *Store) addToFront(sess *Session) {
	sess.prev = s.head
	sess.next = s.head.next
	s.head.next.prev = sess
	s.head.next = sess
}

func (s *Store) removeFromList(sess *Session) {
	sess.prev.next = sess.next
	sess.next.prev = sess.prev
	sess.prev = nil
	sess.next = nil
}

func (s *Store) moveToFront(sess *Session) {
	s.removeFromList(sess)
	s.addToFront(sess)
}
