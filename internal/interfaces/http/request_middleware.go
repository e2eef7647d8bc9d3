package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Identity-api/pkg/metrics"
)

// RequestLogger registra método, ruta, status y latencia de cada petición, y alimenta las métricas HTTP.
// La etiqueta de ruta es la plantilla registrada (/api/auth/organization/:id), no la URL concreta.
func RequestLogger(log zerolog.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler fija el status definitivo
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		path := c.Route().Path

		m.ObserveHTTP(c.Method(), path, status, elapsed)
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", path).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
		return nil
	}
}
