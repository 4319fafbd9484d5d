package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/officehours_backend/config"
	"github.com/Alijeyrad/officehours_backend/internal/events"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/internal/service/appointment"
	"github.com/Alijeyrad/officehours_backend/internal/service/auth"
	"github.com/Alijeyrad/officehours_backend/internal/service/availability"
	"github.com/Alijeyrad/officehours_backend/internal/service/notification"
	"github.com/Alijeyrad/officehours_backend/internal/service/user"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
	"github.com/Alijeyrad/officehours_backend/pkg/email"
	pasetotoken "github.com/Alijeyrad/officehours_backend/pkg/paseto"
	"github.com/Alijeyrad/officehours_backend/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideUserService,
		ProvideAuthService,
		ProvideAvailabilityService,
		ProvideAppointmentService,
		ProvideNotificationService,
		ProvidePasetoManager,
	),
)

func ProvideUserService(client *repo.Client) user.Service {
	return user.New(client)
}

func ProvideAuthService(
	db *repo.Client,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	hasher *password.Hasher,
	authz authorize.IAuthorization,
	cfg *config.Config,
) auth.Service {
	return auth.New(db, rdb, paseto, hasher, authz, cfg)
}

func ProvideAvailabilityService(db *repo.Client) availability.Service {
	return availability.New(db)
}

func ProvideAppointmentService(db *repo.Client, pub *events.Publisher) appointment.Service {
	return appointment.New(db, pub)
}

func ProvideNotificationService(db *repo.Client, emailClient *email.Client) notification.Service {
	var mailer notification.Mailer
	if emailClient.Enabled() {
		mailer = emailClient
	}
	return notification.New(db, mailer, emailClient.AppName())
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
