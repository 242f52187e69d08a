package services

import (
	"sync"
	"time"
)

// Session holds the transient per-client state of both screens. Callers must
// hold the session lock while touching Profile or Drafts.
type Session struct {
	ID      string
	Profile *ProfileScreen

	mu       sync.Mutex
	drafts   map[int]*ReviewDraft
	lastSeen time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Draft returns the review form state for itemID, creating an empty one.
func (s *Session) Draft(itemID int) *ReviewDraft {
	d, ok := s.drafts[itemID]
	if !ok {
		d = &ReviewDraft{}
		s.drafts[itemID] = d
	}
	return d
}

// Drafts returns a copy of the non-empty drafts keyed by item.
func (s *Session) Drafts() map[int]ReviewDraft {
	out := make(map[int]ReviewDraft, len(s.drafts))
	for id, d := range s.drafts {
		if !d.IsEmpty() {
			out[id] = *d
		}
	}
	return out
}

type SessionService struct {
	profiles     *ProfileService
	disarmOnExit bool
	ttl          time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionService(profiles *ProfileService, disarmOnExit bool, ttl time.Duration) *SessionService {
	return &SessionService{
		profiles:     profiles,
		disarmOnExit: disarmOnExit,
		ttl:          ttl,
		now:          time.Now,
		sessions:     make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use. Sessions idle
// for longer than the TTL are dropped.
func (ss *SessionService) Get(id string) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	ss.evictLocked(now)

	s, ok := ss.sessions[id]
	if !ok {
		s = &Session{
			ID:      id,
			Profile: NewProfileScreen(ss.profiles, ss.disarmOnExit),
			drafts:  make(map[int]*ReviewDraft),
		}
		ss.sessions[id] = s
	}
	s.lastSeen = now
	return s
}

func (ss *SessionService) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *SessionService) evictLocked(now time.Time) {
	if ss.ttl <= 0 {
		return
	}
	for id, s := range ss.sessions {
		if now.Sub(s.lastSeen) > ss.ttl {
			delete(ss.sessions, id)
		}
	}
}
