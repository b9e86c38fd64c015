package handler

import (
	"strings"

	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/repository/unitofwork"
	internalWS "kidvibe-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WsHandler upgrades authenticated clients onto the update hub.
type WsHandler struct {
	creds      *credentials.Service
	hub        *internalWS.Hub
	uowFactory unitofwork.RepositoryFactory
}

func NewWsHandler(creds *credentials.Service, hub *internalWS.Hub, uowFactory unitofwork.RepositoryFactory) *WsHandler {
	return &WsHandler{
		creds:      creds,
		hub:        hub,
		uowFactory: uowFactory,
	}
}

func (h *WsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}

func (h *WsHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket upgrades, so the token is
	// accepted from the query string as well.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	userId, err := h.creds.ParseToken(tokenStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	// Same resolution the HTTP middleware does: the claim must belong to
	// a stored, active user.
	uow := h.uowFactory.NewUnitOfWork(c.Context())
	user, err := uow.UserRepository().FindOneById(c.Context(), userId)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Inactive or unknown user"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn, userId)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
