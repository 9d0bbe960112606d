package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/MattLoughlin/SubSync/internal/pkg/usercontext"
)

// renderPage renders a view with the shared layout data every page needs:
// the signed-in user context and any flash message from the previous request.
func renderPage(c *fiber.Ctx, view string, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	uc := usercontext.GetUserContext(c)
	data["Title"] = title
	data["IsConnected"] = uc.IsConnected
	data["UserName"] = uc.Name
	data["TenantName"] = uc.TenantName

	fm := flash.Get(c)
	if len(fm) > 0 {
		data["FlashType"] = fm["type"]
		data["FlashMessage"] = fm["message"]
	}

	return c.Render(view, data, "layouts/main")
}
