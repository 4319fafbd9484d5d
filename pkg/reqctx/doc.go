// Package reqctx provides centralized request context management.
//
// It carries the request-scoped data set by HTTP middleware: request
// metadata and authentication claims. Context keys are unexported; access
// goes through the typed getters and setters.
//
// Setting values (typically in middleware):
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{
//	    RequestID:   "abc-123",
//	    ClientIP:    "192.168.1.1",
//	    UserAgent:   "Mozilla/5.0",
//	    RequestedAt: time.Now(),
//	})
//
//	ctx = reqctx.WithClaims(ctx, claims)
//
// Getting values (in handlers, services, loggers):
//
//	rid := reqctx.RequestIDFromContext(ctx)
//	if reqctx.IsAuthenticated(ctx) {
//	    userID, _ := reqctx.UserIDFromContext(ctx)
//	}
//
// RequestMeta is set for every HTTP request; Claims only for requests
// that passed the auth middleware.
package reqctx
