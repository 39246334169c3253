package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/pkg/logger"
)

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// RequestLogger registra una línea por petición con request id, tenant, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// El ErrorHandler todavía no escribió la respuesta.
			status, _ = statusFor(err)
		}
		evt := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = log.Error()
		case status >= fiber.StatusBadRequest:
			evt = log.Warn()
		}
		evt.
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("tenant_id", GetTenantID(c)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return err
	}
}

// SignInLimiter es el contrato mínimo del limitador de intentos. Lo implementa *ratelimit.Limiter.
type SignInLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// SignInRateLimit limita los intentos de inicio de sesión por IP del cliente.
// Si el limitador falla la petición continúa; con limiter nil el middleware no hace nada.
//
//   - 429 → límite alcanzado, con Retry-After en segundos.
func SignInRateLimit(limiter SignInLimiter, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		allowed, retry, err := limiter.Allow(c.Context(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("rate limit: limitador no disponible")
			return c.Next()
		}
		if !allowed {
			secs := int(retry.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "Demasiados intentos, intente más tarde",
				Code:  CodeRateLimited,
			})
		}
		return c.Next()
	}
}
