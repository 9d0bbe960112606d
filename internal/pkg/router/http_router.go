package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MattLoughlin/SubSync/app/controllers"
	"github.com/MattLoughlin/SubSync/app/repository"
	"github.com/MattLoughlin/SubSync/internal/pkg/env"
	"github.com/MattLoughlin/SubSync/internal/pkg/middleware"
	"github.com/MattLoughlin/SubSync/internal/pkg/oauth"
	"github.com/MattLoughlin/SubSync/internal/pkg/session"
	"github.com/MattLoughlin/SubSync/internal/pkg/webhook"
	"github.com/MattLoughlin/SubSync/internal/pkg/xero"
)

type HttpRouter struct {
}

// webhookService is shared between the HTTP routes and the API router.
var webhookService *webhook.Service

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the Xero client, the App Store service and the webhook pipeline.
	xeroClient := xero.NewClientFromEnv()
	appStore := xero.NewAppStoreService(xeroClient, xero.NewCacheTokenStore())

	synchronizer := webhook.NewSynchronizer(
		repository.GetGlobalRepositories().SignUpUser,
		appStore,
	)
	dispatcher := webhook.NewDispatcher(synchronizer)
	webhookService = webhook.NewService(env.GetEnv("XERO_WEBHOOK_KEY", ""), dispatcher)

	controllers.InitializeSignUpController(xeroClient)
	controllers.InitializeAppStoreController(appStore)
	controllers.InitializeWebhookController(webhookService)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
