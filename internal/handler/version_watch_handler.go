package handler

import (
	"errors"

	"resume-turns-be/internal/pkg/logger"
	"resume-turns-be/internal/pkg/serverutils"
	"resume-turns-be/internal/service"
	internalWS "resume-turns-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const watchModule = "VERSION_WATCH"

// VersionWatchHandler streams change notifications for one version over a
// websocket.
type VersionWatchHandler struct {
	versions  service.IVersionService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewVersionWatchHandler(versions service.IVersionService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *VersionWatchHandler {
	return &VersionWatchHandler{
		versions:  versions,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *VersionWatchHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/versions/:id/watch", tokenFromQuery, serverutils.OptionalJwtMiddleware(h.jwtSecret), h.ServeWs)
}

// tokenFromQuery lets browsers, which cannot set headers on a websocket
// handshake, pass the bearer token as ?token=.
func tokenFromQuery(c *fiber.Ctx) error {
	if token := c.Query("token"); token != "" && c.Get(fiber.HeaderAuthorization) == "" {
		c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return c.Next()
}

func (h *VersionWatchHandler) ServeWs(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid version id")
	}

	// watching requires read access to the version
	if _, err := h.versions.Show(c.UserContext(), serverutils.UserIdFromLocals(c), id); err != nil {
		if errors.Is(err, service.ErrVersionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Version not found")
		}
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(watchModule, "Watch session started", map[string]interface{}{"version_id": id.String()})
		internalWS.ServeWs(h.hub, conn, id)
		h.logger.Info(watchModule, "Watch session ended", map[string]interface{}{"version_id": id.String()})
	})(c)
}
