package controller

import (
	"errors"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/pkg/serverutils"
	"resume-turns-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVersionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Replace(ctx *fiber.Ctx) error
}

type versionController struct {
	service   service.IVersionService
	jwtSecret string
}

func NewVersionController(service service.IVersionService, jwtSecret string) IVersionController {
	return &versionController{service: service, jwtSecret: jwtSecret}
}

func (c *versionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/versions")
	h.Use(serverutils.OptionalJwtMiddleware(c.jwtSecret))
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Replace)
	h.Patch(":id/rename", c.Rename)
}

func (c *versionController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)
	if limit < 0 || offset < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "limit and offset must not be negative")
	}

	res, err := c.service.List(ctx.UserContext(), serverutils.UserIdFromLocals(ctx), limit, offset)
	if err != nil {
		return versionError(err)
	}

	return ctx.JSON(res)
}

func (c *versionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateVersionRequest
	// an empty body creates a default version
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.UserIdFromLocals(ctx), &req)
	if err != nil {
		return versionError(err)
	}

	return ctx.JSON(res)
}

func (c *versionController) Show(ctx *fiber.Ctx) error {
	id, err := versionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), serverutils.UserIdFromLocals(ctx), id)
	if err != nil {
		return versionError(err)
	}

	return ctx.JSON(res)
}

func (c *versionController) Rename(ctx *fiber.Ctx) error {
	id, err := versionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.UserContext(), serverutils.UserIdFromLocals(ctx), &req)
	if err != nil {
		return versionError(err)
	}

	return ctx.JSON(res)
}

func (c *versionController) Replace(ctx *fiber.Ctx) error {
	id, err := versionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.ReplaceVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	req.Id = id

	res, err := c.service.Replace(ctx.UserContext(), serverutils.UserIdFromLocals(ctx), &req)
	if err != nil {
		return versionError(err)
	}

	return ctx.JSON(res)
}

func versionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid version id")
	}
	return id, nil
}

func versionError(err error) error {
	switch {
	case errors.Is(err, service.ErrVersionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Version not found")
	case errors.Is(err, service.ErrInvalidPayload):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}
