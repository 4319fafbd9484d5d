package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the commands that serve the booking API.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the office hours booking API",
		Long: `Serve the REST API used by professors and students.

Professors publish availability slots under /api/v1/availability, students
book them under /api/v1/appointments, and booking, cancellation and
completion events are fanned out to in-app and email notifications.
Run "officehours system migrate up" before the first start.`,
		Example: `  officehours http start --config ./config.yaml
  officehours http start --shutdown-timeout 10s`,
	}

	cmd.AddCommand(NewStartCommand())

	return cmd
}
