package httpserver

import (
	"io"
	"net/http/httptest"
	"testing"

	"portal/pkg/config"
	"portal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiber_RecordsRequestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := NewFiber(config.Config{}, metrics.New(reg), reg)
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), `portal_api_http_requests_total{method="GET",path="/items/:id",status="200"} 1`)
}

func TestNewFiber_ErrorHandlerKeepsFiberCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := NewFiber(config.Config{}, metrics.New(reg), reg)
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":false,"message":"short and stout"}`, string(body))
}
