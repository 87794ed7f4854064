// Package bootstrap loads configuration and opens the shared resources every
// CLI command needs.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/infrastructure/cache"
	"github.com/beneficlub/backoffice/internal/infrastructure/config"
	"github.com/beneficlub/backoffice/internal/infrastructure/database"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// Runtime is the set of process-wide handles opened by Init.
type Runtime struct {
	Env    string
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
	Redis  *redis.Client
}

// Init loads config for env (the ENV variable wins), initializes the logger,
// the business timezone and the database.
func Init(env string) (*Runtime, error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Business.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Runtime{
		Env:    env,
		Config: cfg,
		Log:    logger.NewLogger(),
		DB:     database.Get(),
	}, nil
}

// ConnectRedis opens the Redis client when it is enabled in config. A
// disabled Redis leaves rt.Redis nil.
func (rt *Runtime) ConnectRedis(ctx context.Context) error {
	if !rt.Config.Redis.Enabled {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, &rt.Config.Redis)
	if err != nil {
		return err
	}
	rt.Redis = client
	rt.Log.Infow("redis connection established", "address", rt.Config.Redis.GetAddr())
	return nil
}

// Close releases Redis and the database and flushes the logger.
func (rt *Runtime) Close() {
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			rt.Log.Warnw("failed to close redis", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		rt.Log.Warnw("failed to close database", "error", err)
	}
	_ = logger.Sync()
}

func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
