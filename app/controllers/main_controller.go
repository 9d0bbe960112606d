package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/MattLoughlin/SubSync/internal/pkg/session"
	"github.com/MattLoughlin/SubSync/internal/pkg/usercontext"
)

// HandleStart renders the landing page. Xero launches the app with a
// tenantId query parameter after sign-up, which we stash in the session so
// subsequent pages know which organisation the user arrived from.
func HandleStart(c *fiber.Ctx) error {
	if tenantID := c.Query("tenantId"); tenantID != "" {
		session.SetSessionValue(c, usercontext.SessionTenantID, tenantID)
		log.Infof("[Main] Launch with tenant %s", tenantID)
	}

	return renderPage(c, "home", "SubSync", fiber.Map{})
}

// HandleAbout renders the static about page.
func HandleAbout(c *fiber.Ctx) error {
	return renderPage(c, "about", "About", fiber.Map{})
}
