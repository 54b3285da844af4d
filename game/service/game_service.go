package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/layout"
)

// GameService is everything the transports can do with mazes and sessions.
// Unknown sessions yield ErrSessionNotFound and unknown presets
// ErrConfigNotFound. A move that is refused is a result, not an error.
type GameService interface {
	// GenerateMaze builds a maze that belongs to no session
	GenerateMaze(ctx context.Context, rows, columns int, seed *uint64) (*MazeInfo, error)

	CreateSession(ctx context.Context, configName string, seed *uint64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	Regenerate(ctx context.Context, sessionID string, seed *uint64) (*engine.GameState, error)

	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetScene(ctx context.Context, sessionID string) (*layout.Scene, error)
	GetSolution(ctx context.Context, sessionID string) (*SolutionInfo, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager owns the live sessions. Create draws an ID when id is empty.
type SessionManager interface {
	Create(id string, config *engine.GameConfig, seed *uint64) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager serves the named presets sessions are created from
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session is one player's game: an engine over its own maze
type Session struct {
	ID             string
	// ConfigID is the preset the session was created from
	ConfigID       string
	// Revision counts mutations. Stores shared between servers refuse to
	// replace a stored copy with a higher revision.
	Revision       uint64
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
