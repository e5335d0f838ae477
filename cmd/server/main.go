package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/app"
	"github.com/okihara/plo-game-sub002/internal/auth"
	"github.com/okihara/plo-game-sub002/internal/config"
	"github.com/okihara/plo-game-sub002/internal/persistence"
	"github.com/okihara/plo-game-sub002/internal/session"
)

type CLI struct {
	Config string `kong:"default='server.hcl',help='Path to the HCL server configuration file'"`
	Addr   string `kong:"help='Override the configured listen address (host:port)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for the server (optional)'"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("plo-server"),
		kong.Description("Real-time multi-table Pot-Limit Omaha service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	cfg, err := config.Load(cli.Config)
	kctx.FatalIfErrorf(err)
	if err := cfg.Validate(); err != nil {
		kctx.FatalIfErrorf(err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Network.Address, cfg.Network.Port)
	if cli.Addr != "" {
		addr = cli.Addr
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	verify := buildVerifier(cfg, logger)
	bankroll := persistence.NewMemoryBankroll()
	history := buildHandHistory(cfg, logger)
	stats := persistence.NewMemoryStats()

	a := app.New(cfg, logger, quartz.NewReal(), seed, bankroll, history, stats)

	srv := newServer(a, verify, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", addr).
			Str("default_blinds", cfg.Game.DefaultBlinds).
			Float64("rake_percent", cfg.Game.RakePercent).
			Bool("persistence_enabled", cfg.Persistence.Enable).
			Str("auth_mode", cfg.Auth.Mode).
			Int64("seed", seed).
			Msg("server starting")
		serverErr <- srv.Serve(addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			kctx.FatalIfErrorf(err)
		}
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down gracefully")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}

		if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server exited with error")
		} else {
			logger.Info().Msg("server shutdown complete")
		}
	}
}

// buildHandHistory writes to disk when persistence is enabled, otherwise
// keeps hands in process memory only (tests, local runs without a durable
// archive).
func buildHandHistory(cfg *config.Config, logger zerolog.Logger) persistence.HandHistoryWriter {
	if !cfg.Persistence.Enable {
		return persistence.NewMemoryHandHistory()
	}
	h, err := persistence.NewFileHandHistory(cfg.Persistence.HandHistoryDir)
	if err != nil {
		logger.Error().Err(err).Str("dir", cfg.Persistence.HandHistoryDir).Msg("failed to open hand history directory, falling back to in-memory")
		return persistence.NewMemoryHandHistory()
	}
	return h
}

// buildVerifier selects the token verifier named by the configuration's
// auth block.
func buildVerifier(cfg *config.Config, logger zerolog.Logger) auth.Verifier {
	switch cfg.Auth.Mode {
	case "http":
		logger.Info().Str("url", cfg.Auth.URL).Msg("using external auth verifier")
		return auth.NewHTTPVerifier(cfg.Auth.URL, cfg.AuthTimeout())
	default:
		logger.Warn().Msg("using dev auth verifier: any non-empty bearer token is trusted as a user-id")
		return auth.NewDevVerifier()
	}
}

// matchServer owns the HTTP listener and translates every /ws upgrade into
// a session bound to the dispatcher. Mirrors the teacher's Server type:
// one struct gates routes behind a sync.Once and exposes Serve/Shutdown.
type matchServer struct {
	app       *app.App
	verify    auth.Verifier
	cfg       *config.Config
	logger    zerolog.Logger
	upgrader  websocket.Upgrader
	mux       *http.ServeMux
	http      *http.Server
	routeOnce sync.Once
}

func newServer(a *app.App, verify auth.Verifier, cfg *config.Config, logger zerolog.Logger) *matchServer {
	origin := cfg.Network.Origin
	return &matchServer{
		app:    a,
		verify: verify,
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return origin == "*" || r.Header.Get("Origin") == origin
			},
		},
	}
}

func (s *matchServer) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ensureRoutes()
	s.http = &http.Server{Handler: s.mux}
	return s.http.Serve(listener)
}

func (s *matchServer) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *matchServer) ensureRoutes() {
	s.routeOnce.Do(func() {
		s.mux.HandleFunc("/ws", s.handleWebSocket)
		s.mux.HandleFunc("/health", s.handleHealth)
	})
}

func (s *matchServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	sess := session.New(conn, s.logger, session.TokenVerifier(s.verify), s.app)
	sess.Start()
}

func (s *matchServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
