package store

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/linlv/internal/logger"
	redisconn "github.com/MrSnakeDoc/linlv/internal/redis"
	"github.com/MrSnakeDoc/linlv/internal/store/sqlstore"
	redisstore "github.com/MrSnakeDoc/linlv/internal/store/redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     Backend
	SQLitePath  string // sqlite only
	DatabaseURL string // postgres only
	Redis       redisconn.ConnectOptions
}

// Open returns the configured KV backend, ready for use.
func Open(ctx context.Context, opts Options, log logger.Logger) (KV, error) {
	switch opts.Backend {
	case BackendMemory:
		log.Warn("using in-memory store, favorites will not survive a restart")
		return NewMemory(), nil

	case BackendSQLite, "":
		s, err := sqlstore.OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store opened", logger.String("path", opts.SQLitePath))
		return s, nil

	case BackendPostgres:
		s, err := sqlstore.OpenPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("postgres store opened")
		return s, nil

	case BackendRedis:
		client, err := redisconn.New(ctx, opts.Redis, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
