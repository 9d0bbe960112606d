package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MattLoughlin/SubSync/internal/pkg/session"
	"github.com/MattLoughlin/SubSync/internal/pkg/usercontext"
)

// UserContextMiddleware loads the signed-up user and connected tenant from
// the session into Locals so controllers and views can read them without
// touching the session store again.
func UserContextMiddleware(c *fiber.Ctx) error {
	userCtx := usercontext.UserContext{
		XeroUserID: session.GetSessionValue(c, usercontext.SessionXeroUserID),
		Name:       session.GetSessionValue(c, usercontext.SessionUserName),
		TenantID:   session.GetSessionValue(c, usercontext.SessionTenantID),
		TenantName: session.GetSessionValue(c, usercontext.SessionTenantName),
	}
	userCtx.IsConnected = userCtx.XeroUserID != "" && userCtx.TenantID != ""

	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyXeroUserID, userCtx.XeroUserID)
	c.Locals(usercontext.KeyUserName, userCtx.Name)
	c.Locals(usercontext.KeyTenantID, userCtx.TenantID)
	c.Locals(usercontext.KeyTenantName, userCtx.TenantName)

	return c.Next()
}
