package middleware

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newAPIKeyTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", APIKeyAuthMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	os.Setenv("API_KEY", "secret-key")
	defer os.Unsetenv("API_KEY")

	app := newAPIKeyTestApp()

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "valid x-api-key", header: "X-API-Key", value: "secret-key", want: fiber.StatusOK},
		{name: "valid bearer", header: "Authorization", value: "Bearer secret-key", want: fiber.StatusOK},
		{name: "wrong key", header: "X-API-Key", value: "other-key", want: fiber.StatusUnauthorized},
		{name: "missing key", want: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAPIKeyAuthMiddleware_Unconfigured(t *testing.T) {
	os.Unsetenv("API_KEY")

	app := newAPIKeyTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "anything")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
