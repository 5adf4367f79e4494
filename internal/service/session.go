package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TWRT/savvystudy/internal/models"
	"github.com/TWRT/savvystudy/internal/planner"
)

// Workspace is the planner state of one user. All sessions of that user
// share it, and callers hold its lock for the whole request so the user's
// data sees one request at a time.
type Workspace struct {
	UserID    string
	User      *models.User
	Tasks     []models.Task
	Reminders []models.Reminder

	mu       sync.Mutex
	sessions int // guarded by SessionStore.mu
}

func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

// Session is a single login. The timer is per login; tasks and reminders
// come from the shared workspace.
type Session struct {
	*Workspace
	ID        string
	Timer     *planner.Timer
	ExpiresAt time.Time
}

type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	workspaces map[string]*Workspace
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		sessions:   make(map[string]*Session),
		workspaces: make(map[string]*Workspace),
		ttl:        ttl,
		now:        now,
	}
}

func (s *SessionStore) attachLocked(ws *Workspace, timer *planner.Timer) *Session {
	sess := &Session{
		Workspace: ws,
		ID:        uuid.NewString(),
		Timer:     timer,
		ExpiresAt: s.now().Add(s.ttl),
	}
	ws.sessions++
	s.sessions[sess.ID] = sess
	return sess
}

// Join opens a session on the user's existing workspace. It reports false
// when the user has no live session to join.
func (s *SessionStore) Join(userID string, timer *planner.Timer) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[userID]
	if !ok {
		return nil, false
	}
	return s.attachLocked(ws, timer), true
}

// Create opens a session with freshly loaded data. If another login created
// the user's workspace in the meantime the session joins that one and the
// given collections are dropped.
func (s *SessionStore) Create(user *models.User, tasks []models.Task, reminders []models.Reminder, timer *planner.Timer) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[user.LocalID]
	if !ok {
		ws = &Workspace{
			UserID:    user.LocalID,
			User:      user,
			Tasks:     tasks,
			Reminders: reminders,
		}
		s.workspaces[user.LocalID] = ws
	}
	return s.attachLocked(ws, timer)
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return nil, false
	}
	return sess, true
}

// dropLocked removes a session and releases its workspace once no session
// uses it, so the next login reads the store again.
func (s *SessionStore) dropLocked(sess *Session) {
	delete(s.sessions, sess.ID)
	sess.Workspace.sessions--
	if sess.Workspace.sessions <= 0 && s.workspaces[sess.UserID] == sess.Workspace {
		delete(s.workspaces, sess.UserID)
	}
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		s.dropLocked(sess)
	}
}

// Live returns the sessions that have not expired.
func (s *SessionStore) Live() []*Session {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if now.Before(sess.ExpiresAt) {
			out = append(out, sess)
		}
	}
	return out
}

// Workspaces returns each workspace with at least one live session, once.
func (s *SessionStore) Workspaces() []*Workspace {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[*Workspace]bool, len(s.workspaces))
	out := make([]*Workspace, 0, len(s.workspaces))
	for _, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) || seen[sess.Workspace] {
			continue
		}
		seen[sess.Workspace] = true
		out = append(out, sess.Workspace)
	}
	return out
}

func (s *SessionStore) EvictExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for _, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			s.dropLocked(sess)
			evicted++
		}
	}
	return evicted
}
