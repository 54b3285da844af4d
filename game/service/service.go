package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/layout"
	"github.com/wricardo/mcp-training/mazerunner/game/maze"
)

var (
	// ErrConfigNotFound is returned by config managers for unknown config names
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrInvalidConfig marks configurations that fail to parse or validate
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrSessionNotFound is returned by session managers for unknown IDs
	ErrSessionNotFound = errors.New("session not found")
)

type gameService struct {
	sessions SessionManager
	configs  ConfigManager

	// mu serializes every touch of a session, reads included: engines are
	// not safe for concurrent use and reads stamp LastAccessedAt. Game states
	// leave the service only as snapshots taken under mu.
	mu sync.Mutex
}

// NewGameService returns the GameService backed by the given managers
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameService{sessions: sessions, configs: configs}
}

// withSession runs fn on the session under the service lock and records the
// access in memory. Mutating calls bump the session's revision and persist it
// after fn succeeds.
func (s *gameService) withSession(id string, mutate bool, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			err = fmt.Errorf("%w: %s: %v", ErrSessionNotFound, id, err)
		}
		return err
	}
	if err := s.sessions.UpdateLastAccessed(id); err != nil {
		log.WithField("session", id).WithError(err).Debug("failed to record session access")
	}

	if err := fn(sess); err != nil {
		return err
	}
	if mutate {
		sess.Revision++
		s.persist(id)
	}
	return nil
}

// persist logs instead of failing; the in-memory session stays authoritative
func (s *gameService) persist(id string) {
	if err := s.sessions.Save(id); err != nil {
		log.WithField("session", id).WithError(err).Warn("failed to persist session")
	}
}

// configID names the preset a session came from
func (s *gameService) configID(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	if configs, err := s.configs.ListConfigs(); err == nil {
		for _, c := range configs {
			if c.Name == sess.Config.Name {
				return c.ConfigID
			}
		}
	}
	if sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

func (s *gameService) describe(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.configID(sess),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

// resolveConfig loads a named preset, or the default when name is empty.
// Unknown names list the presets that do exist.
func (s *gameService) resolveConfig(name string) (*engine.GameConfig, error) {
	if name == "" {
		return s.configs.GetDefault(), nil
	}

	cfg, err := s.configs.LoadConfig(name)
	switch {
	case err == nil:
		return cfg, nil
	case !errors.Is(err, ErrConfigNotFound):
		return nil, fmt.Errorf("failed to load config %s: %w", name, err)
	}

	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, name)
	}
	ids := make([]string, 0, len(available))
	for _, c := range available {
		ids = append(ids, c.ConfigID)
	}
	return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, name, ids)
}

// GenerateMaze builds a maze outside any session, drawing a seed when none is given
func (s *gameService) GenerateMaze(_ context.Context, rows, columns int, seed *uint64) (*MazeInfo, error) {
	if rows > engine.MaxGridSize || columns > engine.MaxGridSize {
		return nil, fmt.Errorf("%w: rows and columns must be at most %d", maze.ErrInvalidDimensions, engine.MaxGridSize)
	}

	sd := rand.Uint64()
	if seed != nil {
		sd = *seed
	}

	m, err := maze.Generate(rows, columns, maze.NewSource(sd))
	if err != nil {
		return nil, err
	}

	info := &MazeInfo{
		Rows:         rows,
		Columns:      columns,
		Seed:         sd,
		Maze:         m,
		ASCII:        m.String(),
		OpenPassages: m.OpenPassages(),
		DeadEnds:     len(m.DeadEnds()),
	}
	if path, err := m.Path(maze.Cell{}, maze.Cell{Row: rows - 1, Col: columns - 1}); err == nil {
		info.SolutionLength = len(path) - 1
	}
	return info, nil
}

func (s *gameService) CreateSession(_ context.Context, configName string, seed *uint64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create("", cfg, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.configID(sess)
	}
	s.persist(sess.ID)

	log.WithFields(log.Fields{
		"session": sess.ID,
		"config":  sess.ConfigID,
		"seed":    sess.Engine.GetState().Seed,
	}).Debugf("created %dx%d session", cfg.Rows, cfg.Columns)

	return s.describe(sess), nil
}

func (s *gameService) GetSession(_ context.Context, id string) (info *SessionInfo, err error) {
	err = s.withSession(id, false, func(sess *Session) error {
		info = s.describe(sess)
		return nil
	})
	return info, err
}

// ListSessions returns every session the manager holds in memory
func (s *gameService) ListSessions(_ context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, len(sessions))
	for i, sess := range sessions {
		infos[i] = s.describe(sess)
	}
	return infos, nil
}

func (s *gameService) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(id)
}

func (s *gameService) GetGameState(_ context.Context, id string) (state *engine.GameState, err error) {
	err = s.withSession(id, false, func(sess *Session) error {
		state = sess.Engine.GetState().Clone()
		return nil
	})
	return state, err
}

// GetScene returns the canvas geometry of the session's maze
func (s *gameService) GetScene(_ context.Context, id string) (scene *layout.Scene, err error) {
	err = s.withSession(id, false, func(sess *Session) error {
		scene, err = sess.Engine.GetScene()
		return err
	})
	return scene, err
}

// GetSolution returns the moves from the player's cell to the goal
func (s *gameService) GetSolution(_ context.Context, id string) (*SolutionInfo, error) {
	var info *SolutionInfo
	err := s.withSession(id, false, func(sess *Session) error {
		moves, err := sess.Engine.GetSolution()
		if err != nil {
			return err
		}
		if moves == nil {
			moves = []string{}
		}
		state := sess.Engine.GetState()
		info = &SolutionInfo{From: state.PlayerPos, To: state.GoalPos, Moves: moves, Length: len(moves)}
		return nil
	})
	return info, err
}

func (s *gameService) ListConfigs(_ context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

func (s *gameService) LoadConfig(_ context.Context, name string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(name)
}

func (s *gameService) SaveConfig(_ context.Context, name string, cfg *engine.GameConfig) error {
	return s.configs.SaveConfig(name, cfg)
}
