package controller

import (
	"resume-turns-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Ping(ctx *fiber.Ctx) error
	Live(ctx *fiber.Ctx) error
	Ready(ctx *fiber.Ctx) error
}

type healthController struct {
	ping func() error
}

// NewHealthController takes the readiness probe, usually a database ping.
func NewHealthController(ping func() error) IHealthController {
	return &healthController{ping: ping}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/ping", c.Ping)
	h := r.Group("/health")
	h.Get("/live", c.Live)
	h.Get("/ready", c.Ready)
}

func (c *healthController) Ping(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.StatusResponse{Status: "ok"})
}

func (c *healthController) Live(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.StatusResponse{Status: "ok"})
}

func (c *healthController) Ready(ctx *fiber.Ctx) error {
	if err := c.ping(); err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Database unavailable")
	}
	return ctx.JSON(dto.StatusResponse{Status: "ready"})
}
