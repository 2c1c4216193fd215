package handlers

import (
	"errors"

	"github.com/denizozen/glucolink-backend/internal/dto"
	"github.com/denizozen/glucolink-backend/internal/middleware"
	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/denizozen/glucolink-backend/internal/sync"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SyncHandler struct {
	orchestrator *sync.Orchestrator
}

func NewSyncHandler(orchestrator *sync.Orchestrator) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator}
}

// Trigger runs a sync for the requested user. Item-level and phase-level
// errors come back inside a 200 response; only precondition and
// authorization failures change the status code.
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	auth := middleware.AuthFromContext(c)
	if auth == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.SyncResponse{
			Success: false, Error: "Unauthorized",
		})
	}

	var req dto.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SyncResponse{
			Success: false, Error: "Invalid request body",
		})
	}
	if req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SyncResponse{
			Success: false, Error: "user_id is required",
		})
	}

	if !auth.ServiceRole && auth.UserID != req.UserID {
		return c.Status(fiber.StatusForbidden).JSON(dto.SyncResponse{
			Success: false, Error: "Cannot sync another user's data",
		})
	}

	result, err := h.orchestrator.Run(c.UserContext(), req.UserID)
	if err != nil {
		return h.mapRunError(c, err)
	}

	message := "Sync completed"
	if result.Status == models.SyncStatusPartial {
		message = "Sync completed with errors"
	}
	return c.JSON(dto.SyncResponse{
		Success:     true,
		Message:     message,
		SyncResults: result,
	})
}

func (h *SyncHandler) mapRunError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sync.ErrNoActiveCredential),
		errors.Is(err, sync.ErrCredentialExpired),
		errors.Is(err, sync.ErrSyncInProgress):
		return c.Status(fiber.StatusBadRequest).JSON(dto.SyncResponse{
			Success: false, Error: err.Error(),
		})
	case errors.Is(err, sync.ErrInvalidCredential):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.SyncResponse{
			Success: false, Error: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.SyncResponse{
			Success: false, Error: "Sync failed unexpectedly",
		})
	}
}
