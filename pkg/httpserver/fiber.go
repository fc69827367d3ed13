package httpserver

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"portal/pkg/config"
	"portal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewFiber(conf config.Config, m *metrics.Metrics, gatherer prometheus.Gatherer) *fiber.App {
	bodyLimit := conf.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(
		fiber.Config{
			AppName:        "portal",
			ReadBufferSize: 1024 * 100,
			BodyLimit:      bodyLimit,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				var fe *fiber.Error
				if errors.As(err, &fe) {
					code = fe.Code
				}
				return c.Status(code).JSON(fiber.Map{
					"status":  false,
					"message": err.Error(),
				})
			},
		},
	)

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Authorization",
	}))

	// Prometheus middleware
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// путь из роута, чтобы не плодить лейблы на каждый id
		path := c.Path()
		method := c.Method()
		if r := c.Route(); r != nil {
			if r.Path != "" {
				path = r.Path
			}
			if r.Method != "" {
				method = r.Method
			}
		}
		method = strings.ToUpper(strings.TrimSpace(method))

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		statusStr := strconv.Itoa(status)
		m.API.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.API.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		return err
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return app
}
