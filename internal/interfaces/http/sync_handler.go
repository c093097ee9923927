package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Marketsync-api/internal/application/dto"
	"github.com/jhoicas/Marketsync-api/internal/domain"
)

// ExportEnqueuer encola una exportación en segundo plano. Lo implementa el
// runner de trabajos; los tests inyectan un doble.
type ExportEnqueuer interface {
	Enqueue(backendID string) (string, error)
}

// SyncHandler dispara las exportaciones hacia el marketplace (protegido,
// solo admin).
type SyncHandler struct {
	runner ExportEnqueuer
}

// NewSyncHandler construye el handler.
func NewSyncHandler(runner ExportEnqueuer) *SyncHandler {
	return &SyncHandler{runner: runner}
}

// Export godoc
// @Summary      Encolar exportación de stock y precios de un backend
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del backend"
// @Success      202  {object}  dto.ExportRequestedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/backends/{id}/export [post]
func (h *SyncHandler) Export(c *fiber.Ctx) error {
	backendID := c.Params("id")
	if backendID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	jobID, err := h.runner.Enqueue(backendID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Ya hay una exportación en vuelo: no se duplica, se informa.
			return c.Status(fiber.StatusAccepted).JSON(dto.ExportRequestedResponse{
				BackendID: backendID,
				JobID:     jobID,
				Status:    "already_running",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.ExportRequestedResponse{
		BackendID: backendID,
		JobID:     jobID,
		Status:    "queued",
	})
}
