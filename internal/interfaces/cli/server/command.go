package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/beneficlub/backoffice/internal/infrastructure/migration"
	"github.com/beneficlub/backoffice/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/beneficlub/backoffice/internal/interfaces/http"
	"github.com/beneficlub/backoffice/internal/shared/goroutine"
)

const shutdownTimeout = 30 * time.Second

var (
	env         string
	autoMigrate bool
	noScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server and background jobs",
		Long:  `Start the back-office HTTP server together with the subscriber sweeper, the WhatsApp cadence dispatcher and the webhook retry job.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Serve HTTP only; another instance runs the background jobs")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.Log
	cfg := rt.Config
	log.Infow("starting server",
		"environment", rt.Env,
		"auto_migrate", autoMigrate,
		"scheduler", !noScheduler,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if autoMigrate {
		if rt.Env == "production" {
			log.Warnw("auto-migration is enabled in production")
		}
		if err := migration.NewManager(cfg.Database.Driver).Migrate(rt.DB); err != nil {
			return err
		}
		log.Infow("auto-migration completed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.ConnectRedis(ctx); err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(rt.DB, rt.Redis, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	container.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
		close(serveErr)
	})

	if !noScheduler {
		container.Scheduler().Start()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if err := container.Shutdown(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		log.Errorw("server stopped with error", "error", runErr)
		return runErr
	}

	log.Infow("server exited gracefully")
	return nil
}
