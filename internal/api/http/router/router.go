package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/officehours_backend/config"
	"github.com/Alijeyrad/officehours_backend/internal/api/http/handler"
	"github.com/Alijeyrad/officehours_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/internal/service/appointment"
	"github.com/Alijeyrad/officehours_backend/internal/service/auth"
	"github.com/Alijeyrad/officehours_backend/internal/service/availability"
	"github.com/Alijeyrad/officehours_backend/internal/service/notification"
	"github.com/Alijeyrad/officehours_backend/internal/service/user"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/officehours_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

const readinessTimeout = 2 * time.Second

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client `optional:"true"`
	Auth            authorize.IAuthorization
	DB              *repo.Client `optional:"true"`
	UserSvc         user.Service
	AuthSvc         auth.Service
	AvailabilitySvc availability.Service
	AppointmentSvc  appointment.Service
	NotificationSvc notification.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.AuthSvc)
	rl := r.p.Cfg.Server.RateLimit
	loginLimit := middleware.NewIPRateLimiter(rl.LoginPerSecond, rl.LoginBurst).Handler()

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	availabilityH := handler.NewAvailabilityHandler(r.p.AvailabilitySvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired, loginLimit)
	r.registerUserRoutes(api, userH, authRequired, requirePerm)
	r.registerAvailabilityRoutes(api, availabilityH, authRequired, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired, requirePerm)
	r.registerNotificationRoutes(api, notificationH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.ready(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// ready reports whether Postgres, Redis and the policy store are usable.
func (r *Router) ready(ctx context.Context) bool {
	if !authorize.IsPolicyHealthy() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if r.p.DB == nil || r.p.DB.Ping(ctx) != nil {
		return false
	}
	if r.p.Redis == nil || r.p.Redis.Ping(ctx).Err() != nil {
		return false
	}
	return true
}
