package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	pasetotoken "github.com/Alijeyrad/officehours_backend/pkg/paseto"
	"github.com/Alijeyrad/officehours_backend/pkg/reqctx"
)

// SessionValidator reports whether a login session is still live.
// auth.Service satisfies it.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID uuid.UUID) error
}

// AuthRequired validates a Bearer PASETO access token and checks its session.
// On success, stores *pasetotoken.Claims in c.Locals(pasetotoken.CtxKeyClaims)
// and in the request context.
func AuthRequired(mgr *pasetotoken.Manager, sessions SessionValidator) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return fiber.ErrUnauthorized
		}

		scheme, token, found := strings.Cut(h, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// Only access tokens are accepted on protected routes
		if claims.Type != pasetotoken.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}

		if claims.SessionID == nil {
			return fiber.ErrUnauthorized
		}
		if err := sessions.ValidateSession(c.Context(), *claims.SessionID); err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}
