package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/officehours_backend/config"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
	"github.com/Alijeyrad/officehours_backend/pkg/database"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Maintenance and tooling commands",
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewGenDocsCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewGrantAdminCommand())

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}

// openAuthorization returns an unaudited enforcer; callers must run cleanup.
func openAuthorization(cfg *config.Config) (authorize.IAuthorization, authorize.CleanupFunc, error) {
	enforcer, cleanup, err := authorize.NewEnforcer(
		authorize.FromCentralConfig(cfg.Authorization),
		database.NewDSN(cfg.Database),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	auth, err := authorize.NewAuthorization(enforcer)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create authorization: %w", err)
	}
	return auth, cleanup, nil
}
