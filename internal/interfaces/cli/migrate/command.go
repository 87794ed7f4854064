package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beneficlub/backoffice/internal/infrastructure/migration"
	"github.com/beneficlub/backoffice/internal/interfaces/cli/bootstrap"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env   string
	steps int
	name  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the database schema. MySQL uses the embedded goose scripts; sqlite is migrated from the gorm models.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration",
		Long:  `Write an empty goose SQL migration into the scripts directory. Run from the repository root.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runUp(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running up migrations", "environment", rt.Env, "driver", rt.Config.Database.Driver)

	if err := migration.NewManager(rt.Config.Database.Driver).Migrate(rt.DB); err != nil {
		rt.Log.Errorw("migration failed", "error", err)
		return err
	}

	rt.Log.Infow("migrations completed successfully")
	return nil
}

// gooseFor rejects drivers that are not migrated with versioned scripts.
func gooseFor(rt *bootstrap.Runtime) (*migration.GooseStrategy, error) {
	strategy, ok := migration.NewManager(rt.Config.Database.Driver).Strategy().(*migration.GooseStrategy)
	if !ok {
		return nil, fmt.Errorf("driver %q has no versioned migrations", rt.Config.Database.Driver)
	}
	return strategy, nil
}

func runDown(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	strategy, err := gooseFor(rt)
	if err != nil {
		return err
	}

	rt.Log.Infow("running down migrations", "environment", rt.Env, "steps", steps)

	if err := strategy.MigrateDown(rt.DB, steps); err != nil {
		rt.Log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	rt.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	strategy, err := gooseFor(rt)
	if err != nil {
		return err
	}

	version, err := strategy.GetVersion(rt.DB)
	if err != nil {
		rt.Log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", rt.Env)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(rt.DB); err != nil {
		rt.Log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	strategy := migration.NewGooseStrategy("mysql")
	if err := strategy.Create(scriptsDir, name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migration %q created in %s\n", name, scriptsDir)
	return nil
}
