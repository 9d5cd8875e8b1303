package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadWithoutStorageConfigured(t *testing.T) {
	uc := NewUploadController(nil, nil)
	app := fiber.New()
	app.Post("/api/v1/forms/:id/documents", uc.HandleUploadDocument)
	app.Get("/api/v1/documents/:id/url", uc.HandleDocumentURL)

	req := httptest.NewRequest("POST", "/api/v1/forms/sub-1/documents", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/documents/doc-1/url", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
