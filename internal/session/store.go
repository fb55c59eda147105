package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"geochat/internal/filter"
	"geochat/internal/model"
)

// Session holds per-user conversation state. Callers lock the session for
// the duration of one request so history and filter state stay consistent.
type Session struct {
	ID       string
	mu       sync.Mutex
	History  []model.QA
	Filter   filter.State
	LastSeen time.Time
}

// Lock locks the session for one request
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session
func (s *Session) Unlock() { s.mu.Unlock() }

// maxHistory bounds the conversation window carried into prompts
const maxHistory = 10

// AppendHistory records one question/answer pair, dropping the oldest once
// the window is full
func (s *Session) AppendHistory(question, answer string) {
	s.History = append(s.History, model.QA{Question: question, Answer: answer})
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}

// Store is an in-memory session registry keyed by session ID
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxAge   time.Duration
}

// NewStore creates an empty session store. Sessions older than maxAge are
// dropped lazily on access.
func NewStore(maxAge time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		maxAge:   maxAge,
	}
}

// GetOrCreate returns the session for id, creating one when id is empty or
// unknown. The returned ID must be echoed back to the client.
func (st *Store) GetOrCreate(id string) *Session {
	if id != "" {
		st.mu.RLock()
		s, ok := st.sessions[id]
		st.mu.RUnlock()
		if ok && !st.expired(s) {
			st.touch(s)
			return s
		}
	}

	s := &Session{
		ID:       uuid.New().String(),
		LastSeen: time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.sweepLocked()
	st.mu.Unlock()

	return s
}

// Delete removes a session
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Count returns the number of live sessions
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session) bool {
	if st.maxAge <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.LastSeen) > st.maxAge
}

func (st *Store) touch(s *Session) {
	s.mu.Lock()
	s.LastSeen = time.Now()
	s.mu.Unlock()
}

// sweepLocked drops expired sessions; callers hold the write lock
func (st *Store) sweepLocked() {
	if st.maxAge <= 0 {
		return
	}
	cutoff := time.Now().Add(-st.maxAge)
	for id, s := range st.sessions {
		s.mu.Lock()
		stale := s.LastSeen.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(st.sessions, id)
		}
	}
}
