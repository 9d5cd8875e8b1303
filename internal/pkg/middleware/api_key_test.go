package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(key string) *fiber.App {
	app := fiber.New()
	app.Get("/internal", APIKeyAuthMiddleware(key), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		value      string
		wantStatus int
	}{
		{name: "valid x-api-key", configured: "secret", header: "X-API-Key", value: "secret", wantStatus: fiber.StatusOK},
		{name: "valid bearer token", configured: "secret", header: "Authorization", value: "Bearer secret", wantStatus: fiber.StatusOK},
		{name: "wrong key", configured: "secret", header: "X-API-Key", value: "nope", wantStatus: fiber.StatusUnauthorized},
		{name: "missing key", configured: "secret", wantStatus: fiber.StatusUnauthorized},
		{name: "unconfigured endpoint is closed", configured: "", header: "X-API-Key", value: "anything", wantStatus: fiber.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newProtectedApp(tc.configured)

			req := httptest.NewRequest("GET", "/internal", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
