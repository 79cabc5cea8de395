package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/dto"
	"github.com/ripplehq/ripple-backend/internal/identity"
	"github.com/ripplehq/ripple-backend/internal/services"
)

type ServerHandler struct {
	serverService *services.ServerService
}

func NewServerHandler(serverService *services.ServerService) *ServerHandler {
	return &ServerHandler{serverService: serverService}
}

// GetServer returns a server visible to the caller.
func (h *ServerHandler) GetServer(c *fiber.Ctx) error {
	caller, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	serverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid server ID",
		})
	}

	server, err := h.serverService.FetchVisible(serverID, caller.ID)
	if err != nil {
		if errors.Is(err, services.ErrServerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch server",
		})
	}

	return c.JSON(server)
}
