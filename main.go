// Command egyptian-spider serves Egyptian Spider solitaire.
//
// Commands:
//
//	serve     HTTP server with the REST API, live WebSocket views and an /mcp endpoint
//	mcp       MCP over stdio, backed by a running API or an internal one
//	validate  check persisted sessions for corrupt games
//	simulate  play headless games with a greedy player
//
// Flags fall back to environment variables, and a .env file in the working
// directory is loaded first.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/egyptian-spider/game/config"
	"github.com/wricardo/egyptian-spider/game/service"
	"github.com/wricardo/egyptian-spider/game/session"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Egyptian Spider Server"
)

func main() {
	// A missing .env is fine
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if envErr != nil && !os.IsNotExist(envErr) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", envErr)
	}

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "egyptian-spider",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "development logging at debug level",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			validateCommand(),
			simulateCommand(),
		},
	}
}

// storageFlags select where sessions and configs live
func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Usage:   "directory of game configurations",
			Value:   "configs",
			Sources: cli.EnvVars("CONFIG_DIR"),
		},
		&cli.StringFlag{
			Name:    "sessions-dir",
			Usage:   "directory of persisted sessions (file backend)",
			Value:   "sessions",
			Sources: cli.EnvVars("SESSIONS_DIR"),
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "store sessions in Redis at host:port instead of files",
			Sources: cli.EnvVars("REDIS_ADDR"),
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Sources: cli.EnvVars("REDIS_PASSWORD"),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Sources: cli.EnvVars("REDIS_DB"),
		},
		&cli.StringFlag{
			Name:    "redis-prefix",
			Value:   session.DefaultRedisPrefix,
			Sources: cli.EnvVars("REDIS_PREFIX"),
		},
		&cli.DurationFlag{
			Name:    "session-ttl",
			Usage:   "drop sessions idle for longer than this",
			Value:   24 * time.Hour,
			Sources: cli.EnvVars("SESSION_TTL"),
		},
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loggerFor(cmd *cli.Command) (*zap.Logger, error) {
	logger, err := newLogger(cmd.Root().Bool("debug"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// openPersistence returns the Redis backend when an address is configured,
// otherwise the file backend. closeFn releases the backend.
func openPersistence(ctx context.Context, cmd *cli.Command, logger *zap.Logger) (session.SessionPersistence, func() error, error) {
	if addr := cmd.String("redis-addr"); addr != "" {
		client, err := session.DialRedis(ctx, addr, cmd.String("redis-password"), cmd.Int("redis-db"))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sessions stored in redis", zap.String("addr", addr), zap.String("prefix", cmd.String("redis-prefix")))
		p := session.NewRedisPersistence(client,
			session.WithKeyPrefix(cmd.String("redis-prefix")),
			session.WithTTL(cmd.Duration("session-ttl")),
		)
		return p, client.Close, nil
	}

	dir := cmd.String("sessions-dir")
	p, err := session.NewFilePersistence(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}
	logger.Info("sessions stored on disk", zap.String("dir", dir))
	return p, func() error { return nil }, nil
}

// services is the wired game stack shared by serve and mcp
type services struct {
	configs     *config.Manager
	sessions    *session.Manager
	persistence session.SessionPersistence
	game        service.GameService
	logger      *zap.Logger

	closePersistence func() error
}

// initializeServices wires the config and session managers and the game service
func initializeServices(ctx context.Context, cmd *cli.Command, logger *zap.Logger) (*services, error) {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, closeFn, err := openPersistence(ctx, cmd, logger)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(
		session.WithPersistence(persistence),
		session.WithConfigs(configs),
		session.WithLogger(logger.Named("session")),
	)
	if err := sessions.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", zap.Error(err))
	}

	return &services{
		configs:          configs,
		sessions:         sessions,
		persistence:      persistence,
		game:             service.NewGameService(sessions, configs, logger.Named("service")),
		logger:           logger,
		closePersistence: closeFn,
	}, nil
}

// Close flushes sessions and releases the storage backend
func (s *services) Close() error {
	if err := s.sessions.Close(); err != nil {
		s.logger.Warn("failed to save sessions on close", zap.Error(err))
	}
	return s.closePersistence()
}

// maintain runs the periodic session upkeep until ctx is done
func (s *services) maintain(ctx context.Context, ttl, syncEvery time.Duration) {
	cleanup := time.NewTicker(time.Hour)
	sync := time.NewTicker(syncEvery)
	defer cleanup.Stop()
	defer sync.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := s.sessions.CleanupExpiredSessions(ttl); removed > 0 {
				s.logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		case <-sync.C:
			s.pruneDeleted()
		}
	}
}

// pruneDeleted drops in-memory sessions whose persisted record was removed
// out of band, e.g. a session file deleted by hand.
func (s *services) pruneDeleted() int {
	pruned := 0
	for _, sess := range s.sessions.List() {
		if s.persistence.Exists(sess.ID) {
			continue
		}
		if err := s.sessions.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			s.logger.Info("pruned session with deleted record", zap.String("session", sess.ID))
		}
	}
	return pruned
}
