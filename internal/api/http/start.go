package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/officehours_backend/config"
	"github.com/Alijeyrad/officehours_backend/internal/api/http/router"
	"github.com/Alijeyrad/officehours_backend/internal/app"
)

// Start builds the whole application graph and blocks until SIGINT/SIGTERM.
func Start(cfg *config.Config, timeout time.Duration) error {
	fxApp := fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// NewServer registers the listen hook, so something must depend on it.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
	if err := fxApp.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	fxApp.Run()
	return nil
}
