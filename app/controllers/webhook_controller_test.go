package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/MattLoughlin/SubSync/internal/pkg/webhook"
)

type recordingHandler struct {
	events []webhook.Event
}

func (r *recordingHandler) HandleSubscriptionEvent(_ context.Context, event webhook.Event) error {
	r.events = append(r.events, event)
	return nil
}

func newWebhookTestApp(signingKey string) (*fiber.App, *recordingHandler) {
	handler := &recordingHandler{}
	svc := webhook.NewService(signingKey, webhook.NewDispatcher(handler))
	InitializeWebhookController(svc)

	app := fiber.New()
	app.Post("/webhooks", HandleWebhookReceive)
	return app, handler
}

func sign(body []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhookReceive_ValidSignature(t *testing.T) {
	app, handler := newWebhookTestApp("test-key")

	body := []byte(`{"events":[{"resourceId":"sub-1","tenantId":"tenant-1","category":"SUBSCRIPTION","type":"UPDATE"}]}`)
	req := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-xero-signature", sign(body, "test-key"))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(handler.events) != 1 || handler.events[0].ResourceID != "sub-1" {
		t.Fatalf("expected the subscription event to be processed, got %+v", handler.events)
	}
}

func TestHandleWebhookReceive_InvalidSignature(t *testing.T) {
	app, handler := newWebhookTestApp("test-key")

	body := []byte(`{"events":[{"resourceId":"sub-1","tenantId":"tenant-1","category":"SUBSCRIPTION","type":"UPDATE"}]}`)
	req := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-xero-signature", sign(body, "wrong-key"))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if len(handler.events) != 0 {
		t.Fatalf("a rejected delivery must not be processed, got %+v", handler.events)
	}
	if _, ok := webhookService.LastPayload(); ok {
		t.Fatalf("a rejected delivery must not be stored")
	}
}

func TestHandleWebhookReceive_MissingSignature(t *testing.T) {
	app, _ := newWebhookTestApp("test-key")

	body := []byte(`{"events":[]}`)
	req := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleWebhookReceive_MalformedBody(t *testing.T) {
	app, _ := newWebhookTestApp("test-key")

	body := []byte(`{"events": definitely-not-json`)
	req := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))
	req.Header.Set("x-xero-signature", sign(body, "test-key"))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}
