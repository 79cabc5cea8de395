package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ripplehq/ripple-backend/internal/dto"
	"github.com/ripplehq/ripple-backend/internal/identity"
	"github.com/ripplehq/ripple-backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CreateReport submits a content report to the moderation team.
func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	reporter, err := identity.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.SubmitReport(c.Context(), reporter, &req)
	if err != nil {
		return c.Status(reportStatusCode(err)).JSON(dto.ErrorResponse{
			Error: true, Message: reportErrorMessage(err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func reportStatusCode(err error) int {
	switch {
	case errors.Is(err, dto.ErrUnknownContentType),
		errors.Is(err, dto.ErrMissingContentID),
		errors.Is(err, dto.ErrContextTooLong):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrBotsCannotReport),
		errors.Is(err, services.ErrCannotReportSelf):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrContentNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// reportErrorMessage hides internals behind stable client-facing messages
// for server-side failures.
func reportErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrAttachmentMarking):
		return "Failed to retain report evidence, please try again"
	case errors.Is(err, services.ErrPersistence):
		return "Failed to submit report, please try again"
	case reportStatusCode(err) == fiber.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
