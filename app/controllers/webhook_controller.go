package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/MattLoughlin/SubSync/internal/pkg/env"
	"github.com/MattLoughlin/SubSync/internal/pkg/webhook"
)

const defaultSignatureHeader = "x-xero-signature"

var webhookService *webhook.Service

// InitializeWebhookController wires the shared webhook service used by the
// receive and diagnostic handlers.
func InitializeWebhookController(svc *webhook.Service) {
	webhookService = svc
}

func getWebhookService() *webhook.Service {
	return webhookService
}

// HandleWebhookReceive accepts a webhook delivery from Xero. The raw body is
// verified against its HMAC signature before anything is parsed; deliveries
// that fail verification are rejected with 401 and never stored or queued.
func HandleWebhookReceive(c *fiber.Ctx) error {
	svc := getWebhookService()
	if svc == nil {
		log.Error("[Webhook] Service not initialized")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	// Fiber reuses its buffers between requests, copy before handing off.
	rawBody := append([]byte(nil), c.BodyRaw()...)

	header := env.GetEnv("XERO_WEBHOOK_SIGNATURE_HEADER", defaultSignatureHeader)
	signature := c.Get(header)

	if !svc.Verify(rawBody, signature) {
		log.Warnf("[Webhook] Signature verification failed for delivery from %s", c.IP())
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err := svc.Receive(c.UserContext(), rawBody); err != nil {
		log.Errorf("[Webhook] Could not process delivery: %v", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}

// HandleWebhookLast renders the most recent webhook payload for debugging.
func HandleWebhookLast(c *fiber.Ctx) error {
	svc := getWebhookService()
	if svc == nil {
		log.Error("[Webhook] Service not initialized")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return renderPage(c, "last_webhook", "Last Webhook", fiber.Map{
		"Payload": svc.LastPayloadPretty(),
	})
}
