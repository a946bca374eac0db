package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/linlv/internal/assistant/gemini"
	"github.com/MrSnakeDoc/linlv/internal/config"
	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/favorites"
	"github.com/MrSnakeDoc/linlv/internal/httpserver"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/index"
	"github.com/MrSnakeDoc/linlv/internal/logger"
	"github.com/MrSnakeDoc/linlv/internal/redis"
	"github.com/MrSnakeDoc/linlv/internal/scheduler"
	"github.com/MrSnakeDoc/linlv/internal/sources/catalogfile"
	"github.com/MrSnakeDoc/linlv/internal/store"
	"github.com/MrSnakeDoc/linlv/internal/utils"
	"github.com/MrSnakeDoc/linlv/internal/version"
)

// Components are the pieces shared by the HTTP server and the CLI commands.
type Components struct {
	Config        *config.Config
	Logger        logger.Logger
	Catalog       *domain.Catalog
	CatalogSource string
	Store         store.KV
	Favorites     *favorites.Tracker
	Completer     *gemini.Client
}

// Bootstrap loads the catalog, opens the favorites store and builds the
// assistant client. The catalog is required; everything else degrades.
func Bootstrap(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*Components, error) {
	loader := catalogfile.NewLoader(cfg.CatalogFile)
	catalog, err := catalogfile.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	loggerClient.Info("catalog loaded",
		logger.String("source", loader.Source()),
		logger.Int("records", catalog.Count()))

	kv, err := store.Open(ctx, storeOptions(cfg), loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	tracker := favorites.NewTracker(kv, loggerClient)
	favs := tracker.Load(ctx)
	loggerClient.Info("favorites loaded", logger.Int("count", favs.Len()))

	completer := gemini.New(cfg.GeminiAPIKey, gemini.WithBaseURL(cfg.GeminiBaseURL))
	if !completer.HasCredentials() {
		loggerClient.Warn("no Gemini API key configured, the assistant will answer with the missing-key message")
	}

	return &Components{
		Config:        cfg,
		Logger:        loggerClient,
		Catalog:       catalog,
		CatalogSource: loader.Source(),
		Store:         kv,
		Favorites:     tracker,
		Completer:     completer,
	}, nil
}

// Close releases the store.
func (c *Components) Close() {
	utils.CloseLogged(c.Store, "store", c.Logger)
}

func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		Backend:     store.Backend(cfg.Store),
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		Redis: redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		},
	}
}

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	components *Components
	server     *httpserver.Server
	sessions   *index.SessionIndex
	reaper     *scheduler.SessionReaper
}

// New wires the HTTP server on top of the bootstrapped components.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	c, err := Bootstrap(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	sessions := index.NewSessionIndex()
	reaper := scheduler.NewSessionReaper(sessions, loggerClient, cfg.SessionSweepInterval, cfg.SessionTTL)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		CORSOrigins:      cfg.CORSOrigins,
		RequestTimeout:   cfg.AssistantTimeout + 5*time.Second,
		Catalog:          c.Catalog,
		CatalogSource:    c.CatalogSource,
		Favorites:        c.Favorites,
		Store:            c.Store,
		StoreBackend:     cfg.Store,
		Sessions:         sessions,
		Completer:        c.Completer,
		AssistantModel:   cfg.GeminiModel,
		AssistantTimeout: cfg.AssistantTimeout,
		ChatBurst:        cfg.ChatBurst,
		ChatRefillPerMin: cfg.ChatRefillPerMin,
	}

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		components: c,
		server:     httpserver.New(cfg, loggerClient, d),
		sessions:   sessions,
		reaper:     reaper,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LinLv v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.Get().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reaper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session reaper: %w", err)
	}
	a.logger.Info("session reaper started",
		logger.Duration("interval", a.cfg.SessionSweepInterval),
		logger.Duration("ttl", a.cfg.SessionTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.reaper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.components.Close()

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ LinLv stopped cleanly", logger.Int("open_sessions", a.sessions.Count()))
	return nil
}
