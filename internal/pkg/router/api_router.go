package router

import (
	apiv1 "github.com/MattLoughlin/SubSync/internal/api/v1"
	"github.com/MattLoughlin/SubSync/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes, API-key protected
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())
	apiServer := apiv1.NewAPIServer(webhookService)
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
