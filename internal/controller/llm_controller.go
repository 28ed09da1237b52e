package controller

import (
	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILLMController interface {
	RegisterRoutes(r fiber.Router)
	Complete(ctx *fiber.Ctx) error
}

type llmController struct {
	service service.ILLMService
}

func NewLLMController(service service.ILLMService) ILLMController {
	return &llmController{service: service}
}

func (c *llmController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/llm")
	h.Post("/complete", c.Complete)
}

func (c *llmController) Complete(ctx *fiber.Ctx) error {
	var req dto.LLMCompleteRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
		}
	}

	res, err := c.service.Complete(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
