package system

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
)

func NewGrantAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant-admin <user-id>",
		Short: "Give a user the platform admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			auth, cleanup, err := openAuthorization(cfg)
			if cleanup != nil {
				defer cleanup(context.Background())
			}
			if err != nil {
				return err
			}

			if err := authorize.AssignPlatformAdmin(cmd.Context(), auth, userID.String()); err != nil {
				return fmt.Errorf("failed to grant admin: %w", err)
			}
			fmt.Printf("User %s is now a platform admin.\n", userID)
			return nil
		},
	}

	return cmd
}
