package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

// SessionPersistence stores sessions outside the process. Load returns
// service.ErrSessionNotFound for unknown IDs.
type SessionPersistence interface {
	Save(session *service.Session) error
	Load(id string) (*service.Session, error)
	Delete(id string) error
	ListAll() ([]string, error)
	Exists(id string) bool
}

// StoredSession is the JSON document kept for each session by every backend
type StoredSession struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Revision       uint64            `json:"revision"`
	GameState      *engine.GameState `json:"game_state"`

	// Config is a snapshot used when the named preset no longer exists
	Config *engine.GameConfig `json:"config,omitempty"`
}

func encodeSession(sess *service.Session, configs service.ConfigManager) ([]byte, error) {
	if sess == nil {
		return nil, errors.New("session cannot be nil")
	}

	doc, err := json.MarshalIndent(StoredSession{
		ID:             sess.ID,
		ConfigName:     configIDFor(sess, configs),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Revision:       sess.Revision,
		GameState:      sess.Engine.GetState(),
		Config:         sess.Config,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", sess.ID, err)
	}
	return doc, nil
}

// decodeSession rebuilds a session around its stored game. The named preset
// is preferred over the snapshot so preset edits reach resumed sessions.
func decodeSession(doc []byte, configs service.ConfigManager) (*service.Session, error) {
	var stored StoredSession
	if err := json.Unmarshal(doc, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if stored.GameState == nil {
		return nil, fmt.Errorf("session %s has no game state", stored.ID)
	}

	cfg, err := storedConfig(stored, configs)
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewEngineFromState(cfg, stored.GameState)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", stored.ID, err)
	}

	return &service.Session{
		ID:             stored.ID,
		ConfigID:       stored.ConfigName,
		Engine:         eng,
		Config:         cfg,
		CreatedAt:      stored.CreatedAt,
		LastAccessedAt: stored.LastAccessedAt,
		Revision:       stored.Revision,
	}, nil
}

// checkRevision refuses to overwrite a stored document that is ahead of rev.
// Equal revisions overwrite. A document that does not decode is replaced.
func checkRevision(stored []byte, id string, rev uint64) error {
	var head struct {
		Revision uint64 `json:"revision"`
	}
	if json.Unmarshal(stored, &head) != nil || head.Revision <= rev {
		return nil
	}
	return fmt.Errorf("%w: %s is at revision %d, ours is %d", ErrStaleSession, id, head.Revision, rev)
}

func storedConfig(stored StoredSession, configs service.ConfigManager) (*engine.GameConfig, error) {
	if configs == nil || stored.ConfigName == "" {
		if stored.Config == nil {
			return nil, fmt.Errorf("session %s has no config", stored.ID)
		}
		return stored.Config, nil
	}

	cfg, err := configs.LoadConfig(stored.ConfigName)
	switch {
	case err == nil:
		return cfg, nil
	case stored.Config == nil:
		return nil, fmt.Errorf("failed to load config '%s': %w", stored.ConfigName, err)
	}
	log.WithFields(log.Fields{"session": stored.ID, "config": stored.ConfigName}).
		WithError(err).Warn("preset unavailable, using stored snapshot")
	return stored.Config, nil
}

// configIDFor names the preset a session was created from, falling back to
// the config's display name
func configIDFor(sess *service.Session, configs service.ConfigManager) string {
	switch {
	case sess.ConfigID != "":
		return sess.ConfigID
	case sess.Config == nil:
		return ""
	}
	if configs != nil {
		if list, err := configs.ListConfigs(); err == nil {
			for _, c := range list {
				if c.Name == sess.Config.Name {
					return c.ConfigID
				}
			}
		}
	}
	return sess.Config.Name
}
