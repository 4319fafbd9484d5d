package system

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/officehours_backend/migrations"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
	"github.com/Alijeyrad/officehours_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run database migrations and seed authorization policies",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := database.OpenSQL(database.FromCentralConfig(cfg.Database))
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Printf("Running migrations (%s)...\n", command)
			if err := database.Migrate(ctx, db, migrations.FS, command); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			if command != "up" || skipSeed {
				return nil
			}

			auth, cleanup, err := openAuthorization(cfg)
			if cleanup != nil {
				defer cleanup(context.Background())
			}
			if err != nil {
				return err
			}

			slog.Info("Seeding Casbin policies...")
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Do not seed the default role permissions after migrating up")

	return cmd
}
