// Command mazerunner serves the Maze Runner game.
//
//	mazerunner [server]     REST API, /ws live updates and an /mcp endpoint
//	mazerunner stdio-mcp    MCP over stdio, backed by an API on localhost:8080
//	                        or an internal one on a loopback port
//
// Sessions are kept as JSON files, or in Redis when --redis-addr (REDIS_ADDR)
// is set. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazerunner/game/config"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
	"github.com/wricardo/mcp-training/mazerunner/game/session"
)

const (
	Version = "1.0.0"
	AppName = "Maze Runner Server"
)

const (
	sessionMaxAge    = 24 * time.Hour
	cleanupInterval  = time.Hour
	syncInterval     = 5 * time.Second
	redisSessionTTL  = 7 * 24 * time.Hour
	redisDialTimeout = 3 * time.Second
)

// settings is everything the server reads from flags and the environment
type settings struct {
	Host        string
	Port        int
	ConfigDir   string
	SessionsDir string
	RedisAddr   string

	Ngrok       bool
	NgrokToken  string
	NgrokDomain string
}

func defaultSettings() settings {
	return settings{Host: "localhost", Port: 8080, ConfigDir: "configs", SessionsDir: "sessions"}
}

func (s settings) addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("failed to load .env")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func appFlags() []cli.Flag {
	d := defaultSettings()
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Value: d.Host, Usage: "HTTP server host"},
		&cli.IntFlag{Name: "port", Value: d.Port, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "config-dir", Value: d.ConfigDir, Usage: "directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "sessions-dir", Value: d.SessionsDir, Usage: "directory for persisted sessions", Sources: cli.EnvVars("SESSIONS_DIR")},
		&cli.StringFlag{Name: "redis-addr", Usage: "Redis address for session storage (files when empty)", Sources: cli.EnvVars("REDIS_ADDR")},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "reserved ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "mazerunner",
		Usage:   "play perfect mazes over REST, websocket and MCP",
		Version: Version,
		Flags:   appFlags(),
		Action:  serveAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server (default)",
				Action:  serveAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "serve the MCP tools over stdio",
				Action:  stdioAction,
			},
		},
	}
}

func settingsFrom(cmd *cli.Command) settings {
	return settings{
		Host:        cmd.String("host"),
		Port:        cmd.Int("port"),
		ConfigDir:   cmd.String("config-dir"),
		SessionsDir: cmd.String("sessions-dir"),
		RedisAddr:   cmd.String("redis-addr"),
		Ngrok:       cmd.Bool("ngrok"),
		NgrokToken:  cmd.String("ngrok-auth"),
		NgrokDomain: cmd.String("ngrok-domain"),
	}
}

func setupLogging(cmd *cli.Command, stdio bool) {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
	// stdout carries the protocol in stdio mode
	if stdio {
		log.SetOutput(os.Stderr)
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, false)
	cfg := settingsFrom(cmd)
	log.Infof("Starting %s v%s", AppName, Version)

	gameService, err := initializeServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runHTTPServer(ctx, cfg, gameService)
}

func stdioAction(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, true)
	cfg := settingsFrom(cmd)
	log.Infof("Starting %s v%s (MCP stdio)", AppName, Version)

	gameService, err := initializeServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runStdioMCP(ctx, gameService)
}

// newPersistence uses Redis when an address is set and the server answers,
// otherwise JSON files under the sessions directory
func newPersistence(ctx context.Context, cfg settings, configs *config.Manager) (session.SessionPersistence, error) {
	if cfg.RedisAddr == "" {
		store, err := session.NewFilePersistence(cfg.SessionsDir, configs)
		if err != nil {
			return nil, err
		}
		log.WithField("dir", cfg.SessionsDir).Info("Storing sessions on disk")
		return store, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DialTimeout: redisDialTimeout})
	store := session.NewRedisPersistence(client, redisSessionTTL, configs)

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.RedisAddr, err)
	}

	log.WithField("addr", cfg.RedisAddr).Info("Storing sessions in Redis")
	return store, nil
}

// initializeServices builds the managers and the game service, then starts
// the background maintenance loops. They stop with ctx.
func initializeServices(ctx context.Context, cfg settings) (service.GameService, error) {
	configs, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := newPersistence(ctx, cfg, configs)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(store)
	if err := sessions.LoadPersistedSessions(); err != nil {
		log.WithError(err).Warn("failed to load persisted sessions")
	}

	go every(ctx, cleanupInterval, func() {
		if n := sessions.CleanupExpiredSessions(sessionMaxAge); n > 0 {
			log.Infof("Evicted %d idle sessions", n)
		}
	})
	go every(ctx, syncInterval, func() {
		if n := syncWithPersistence(sessions, store); n > 0 {
			log.Infof("Dropped %d sessions whose stored copy is gone", n)
		}
	})

	return service.NewGameService(sessions, configs), nil
}

// every runs fn on each tick until ctx is done
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// syncWithPersistence forgets in-memory sessions whose stored copy was
// removed, such as a deleted file or an expired Redis key
func syncWithPersistence(sessions *session.Manager, store session.SessionPersistence) int {
	if store == nil {
		return 0
	}

	dropped := 0
	for _, s := range sessions.List() {
		if store.Exists(s.ID) {
			continue
		}
		if err := sessions.DeleteFromMemory(s.ID); err == nil {
			dropped++
			log.WithField("session", s.ID).Debug("stored copy gone, dropped from memory")
		}
	}
	return dropped
}
