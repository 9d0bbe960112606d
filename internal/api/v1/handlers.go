package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/MattLoughlin/SubSync/app/repository"
	"github.com/MattLoughlin/SubSync/internal/pkg/webhook"
)

// Pong is the ping endpoint response.
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer serves the JSON API documented in public/docs/v1/openapi.yml.
type APIServer struct {
	webhooks *webhook.Service
}

// NewAPIServer creates a new API server instance
func NewAPIServer(webhooks *webhook.Service) *APIServer {
	return &APIServer{webhooks: webhooks}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetUsers lists every recorded sign-up with its current plan summary.
func (s *APIServer) GetUsers(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().SignUpUser
	users, err := repo.List()
	if err != nil {
		log.Errorf("[API] Could not list users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "could not list users"})
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// GetLastWebhook returns the most recent raw webhook payload, if any.
func (s *APIServer) GetLastWebhook(c *fiber.Ctx) error {
	payload, ok := s.webhooks.LastPayload()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "no webhook received yet"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// RegisterHandlers attaches all v1 routes to the given router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/users", s.GetUsers)
	router.Get("/webhooks/last", s.GetLastWebhook)
}
