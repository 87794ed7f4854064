package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beneficlub/backoffice/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/beneficlub/backoffice/internal/interfaces/http"
)

const sweepTimeout = 30 * time.Minute

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the subscriber expiry sweep once",
		Long:  `Move subscribers whose coverage lapsed from ativo to vencido, and from vencido to inativo, exactly as the nightly job does.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), sweepTimeout)
	defer cancel()

	if err := rt.ConnectRedis(ctx); err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(rt.DB, rt.Redis, rt.Config, rt.Log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Shutdown()

	res, err := container.SweepSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "expired: %d, inactivated: %d, failed: %d\n", res.Expired, res.Inactivated, res.Failed)
	return nil
}
