package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	// ErrStaleSession is returned when storage already holds a newer revision
	ErrStaleSession = errors.New("stored session is newer")
)

// MaxSessionIDLength bounds caller-chosen session IDs
const MaxSessionIDLength = 64

// Manager keeps the live sessions in memory, keyed case-insensitively, and
// mirrors every change to an optional persistence layer.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	newID       func() string
	now         func() time.Time
	mu          sync.RWMutex
}

// Option customizes a Manager
type Option func(*Manager)

// WithPersistence mirrors sessions to p
func WithPersistence(p SessionPersistence) Option {
	return func(m *Manager) { m.persistence = p }
}

// WithIDGenerator replaces the random session ID generator
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithClock replaces time.Now for access timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager. Without options it keeps sessions in
// memory only.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
		newID:    randomSessionID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewManagerWithPersistence creates a session manager backed by persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return NewManager(WithPersistence(persistence))
}

// randomSessionID returns 8 hex characters taken from a random UUID
func randomSessionID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:4])
}

// key is the map key for a session ID
func key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ValidateSessionID rejects IDs that cannot double as storage keys or file names
func ValidateSessionID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: empty", ErrInvalidSessionID)
	case len(id) > MaxSessionIDLength:
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSessionID, MaxSessionIDLength)
	case strings.ContainsAny(id, `/\:*?"<>| `) || strings.Contains(id, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// Create starts a session on a freshly generated maze. An empty id gets a
// random one. A non-nil seed pins the maze, overriding the configuration's
// own seed.
func (m *Manager) Create(id string, config *engine.GameConfig, seed *uint64) (*service.Session, error) {
	if id != "" {
		if err := ValidateSessionID(id); err != nil {
			return nil, err
		}
		// An evicted session still owns its ID
		if m.persistence != nil && m.persistence.Exists(id) {
			return nil, ErrSessionAlreadyExists
		}
	}

	var eng *engine.GameEngine
	var err error
	if seed != nil {
		eng, err = engine.NewEngineWithSeed(config, *seed)
	} else {
		eng, err = engine.NewEngine(config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	if id == "" {
		id = m.newID()
		for m.sessions[key(id)] != nil {
			id = m.newID()
		}
	} else if m.sessions[key(id)] != nil {
		m.mu.Unlock()
		return nil, ErrSessionAlreadyExists
	}

	now := m.now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = session
	m.mu.Unlock()

	m.persist(session, "create")
	return session, nil
}

// persist saves a session, logging rather than failing on storage errors
func (m *Manager) persist(session *service.Session, reason string) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(session); err != nil {
		log.WithField("session", session.ID).Warnf("failed to persist session after %s: %v", reason, err)
	}
}

// Get returns a session, pulling it from persistence when it is not in memory
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session := m.sessions[key(id)]
	m.mu.RUnlock()
	if session != nil {
		return session, nil
	}

	if m.persistence == nil || ValidateSessionID(id) != nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile
	if existing := m.sessions[key(id)]; existing != nil {
		return existing, nil
	}
	m.sessions[key(id)] = loaded
	log.WithField("session", id).Debug("loaded session from storage")
	return loaded, nil
}

// GetOrCreate gets an existing session or creates one with a random maze
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config, nil)
	}
	return session, err
}

// List returns the in-memory sessions, oldest first
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Delete removes a session from memory and storage. It fails with
// ErrSessionNotFound only when neither holds it.
func (m *Manager) Delete(id string) error {
	inMemory := m.DeleteFromMemory(id) == nil

	if m.persistence != nil && ValidateSessionID(id) == nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory drops a session from memory only, leaving storage alone
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[key(id)] == nil {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

// UpdateLastAccessed stamps a session with the current time. The stamp stays
// in memory and reaches storage with the session's next save.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.sessions[key(id)]
	if session == nil {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = m.now()
	return nil
}

// Save writes a session to storage. Without persistence it is a no-op.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session := m.sessions[key(id)]
	m.mu.RUnlock()
	if session == nil {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions evicts sessions idle for longer than maxAge from
// memory. Stored copies stay, so an evicted session can still be reloaded.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for k, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed++
			log.WithField("session", session.ID).Debug("evicted idle session")
		}
	}
	return removed
}

// Count returns the number of sessions in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions pulls every stored session into memory, skipping the
// ones already loaded and the ones that fail to decode
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	loaded := 0
	for _, id := range ids {
		m.mu.RLock()
		present := m.sessions[key(id)] != nil
		m.mu.RUnlock()
		if present {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			log.WithField("session", id).Warnf("failed to load persisted session: %v", err)
			continue
		}

		m.mu.Lock()
		if m.sessions[key(id)] == nil {
			m.sessions[key(id)] = session
			loaded++
		}
		m.mu.Unlock()
	}

	if loaded > 0 {
		log.Infof("Loaded %d persisted sessions from storage", loaded)
	}
	return nil
}

// SaveAllSessions writes every in-memory session to storage
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	failed := 0
	for _, session := range m.List() {
		if err := m.persistence.Save(session); err != nil {
			log.WithField("session", session.ID).Warnf("failed to save session: %v", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}
