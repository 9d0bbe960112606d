package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/MattLoughlin/SubSync/app/controllers"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Landing and static pages
	app.Get("/", controllers.HandleStart)
	app.Get("/about", controllers.HandleAbout)

	// Sign Up with Xero
	app.Get("/signup", controllers.HandleSignUpStart)
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleSignUpCallback)
	app.Post("/logout", controllers.HandleSignUpLogout)

	// Referral users list
	app.Get("/users", controllers.HandleUsersList)

	// App Store subscription pages
	app.Get("/appstore/subscribe", controllers.HandleSubscribe)
	app.Get("/appstore/subscription", controllers.HandleGetSubscription)
	app.Post("/appstore/usage", controllers.HandlePostUsage)

	// Xero webhooks (no CSRF, signature-verified in controller)
	app.Post("/webhooks", controllers.HandleWebhookReceive)
	app.Get("/webhooks/last", controllers.HandleWebhookLast)
}
