package usercontext

import (
	"github.com/gofiber/fiber/v2"
)

// UserContext carries the signed-up user's identity and connected tenant for
// the duration of one request. IsConnected is true once the Sign Up with
// Xero flow has completed in this session.
type UserContext struct {
	XeroUserID  string
	Name        string
	TenantID    string
	TenantName  string
	IsConnected bool
}

// GetUserContext returns the request's user context. It is always safe to
// call; before the middleware ran (or for anonymous visitors) the zero value
// is returned.
func GetUserContext(c *fiber.Ctx) UserContext {
	if v := c.Locals(KeyUserContext); v != nil {
		if ctx, ok := v.(UserContext); ok {
			return ctx
		}
	}
	return UserContext{}
}
