package pasetotoken

import "github.com/gofiber/fiber/v3"

// CtxKeyClaims is the fiber Locals key the auth middleware stores claims under.
const CtxKeyClaims = "auth.claims"

func ClaimsFromFiber(c fiber.Ctx) (*Claims, bool) {
	cl, ok := c.Locals(CtxKeyClaims).(*Claims)
	return cl, ok && cl != nil
}
