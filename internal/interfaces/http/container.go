package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	operatordto "github.com/beneficlub/backoffice/internal/application/operator/dto"
	operatoruc "github.com/beneficlub/backoffice/internal/application/operator/usecases"
	subscriberuc "github.com/beneficlub/backoffice/internal/application/subscriber/usecases"
	"github.com/beneficlub/backoffice/internal/infrastructure/config"
	"github.com/beneficlub/backoffice/internal/infrastructure/metrics"
	"github.com/beneficlub/backoffice/internal/infrastructure/scheduler"
	"github.com/beneficlub/backoffice/internal/interfaces/http/middleware"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases, handlers and
// background jobs of the back office, wired together once at startup.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	tx      db.Transactor
	metrics *metrics.Metrics

	repos *repositories
	svcs  *services
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component. redisClient may be nil, in which case
// locks are process-local and login is not rate limited.
func NewContainer(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      database,
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		tx:      db.NewTransactionManager(database),
		metrics: metrics.NewMetrics("backoffice"),
	}

	// Section 1: Infrastructure - repositories, gateways, outbound clients
	c.repos = newRepositories(database, log)
	svcs, err := c.newServices()
	if err != nil {
		return nil, err
	}
	c.svcs = svcs

	// Section 2: Use cases
	c.ucs = c.newUseCases()

	// Section 3: Handlers and middlewares
	c.hdlrs = c.newHandlers()
	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.jwt, log)
	c.rateLimiter = middleware.NewRateLimiter(c.svcs.loginLimiter, log)

	// Section 4: Background jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine returns the gin engine with every route registered.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Scheduler returns the background job scheduler; the caller starts it.
func (c *Container) Scheduler() *scheduler.SchedulerManager {
	return c.schedulerManager
}

// SweepSubscribers runs one sweep outside the scheduler, for the CLI.
func (c *Container) SweepSubscribers(ctx context.Context) (subscriberuc.SweepResult, error) {
	return c.ucs.sweepSubscribers.Sweep(ctx, biztime.NowUTC())
}

// CreateOperator seeds a back-office account, for the CLI.
func (c *Container) CreateOperator(ctx context.Context, cmd operatoruc.CreateOperatorCommand) (*operatordto.OperatorDTO, error) {
	return c.ucs.createOperator.Execute(ctx, cmd)
}

// Shutdown stops background jobs. The database and Redis handles belong to
// the caller.
func (c *Container) Shutdown() error {
	if c.schedulerManager == nil {
		return nil
	}
	if err := c.schedulerManager.Stop(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}
