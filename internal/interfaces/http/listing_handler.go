package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Marketsync-api/internal/application/dto"
	"github.com/jhoicas/Marketsync-api/internal/application/reporting"
	"github.com/jhoicas/Marketsync-api/internal/application/usecase"
	"github.com/jhoicas/Marketsync-api/internal/domain"
)

// ListingRefresher refresca la foto de mercado de un listing bajo demanda.
// Lo implementa el caso de uso de exportación.
type ListingRefresher interface {
	RefreshListing(ctx context.Context, listingID string) error
}

// ListingHandler maneja consultas de listings, su histórico de precios y el
// informe PDF (protegido).
type ListingHandler struct {
	uc        *usecase.ListingUseCase
	reportUC  *reporting.ReportUseCase
	refresher ListingRefresher
}

// NewListingHandler construye el handler.
func NewListingHandler(uc *usecase.ListingUseCase, reportUC *reporting.ReportUseCase, refresher ListingRefresher) *ListingHandler {
	return &ListingHandler{uc: uc, reportUC: reportUC, refresher: refresher}
}

// GetByID godoc
// @Summary      Obtener listing por ID
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del listing"
// @Success      200  {object}  dto.ListingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "listing no encontrado"})
	}
	return c.JSON(out)
}

// ListByBackend godoc
// @Summary      Listar listings de un backend
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del backend"
// @Success      200  {object}  dto.ListingListResponse
// @Router       /api/backends/{id}/listings [get]
func (h *ListingHandler) ListByBackend(c *fiber.Ctx) error {
	backendID := c.Params("id")
	if backendID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ListByBackend(backendID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PriceHistory godoc
// @Summary      Histórico de precios de un listing
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del listing"
// @Param        from   query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to     query  string  false  "Fecha final (RFC 3339)"
// @Param        limit  query  int     false  "Límite"   default(20)
// @Param        offset query  int     false  "Offset"   default(0)
// @Success      200    {object}  dto.PriceHistoryResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/history [get]
func (h *ListingHandler) PriceHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.uc.PriceHistory(id, from, to, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PriceHistoryReport godoc
// @Summary      Informe PDF del histórico de precios
// @Tags         listings
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true  "ID del listing"
// @Param        from  query  string  true  "Fecha inicial (RFC 3339)"
// @Param        to    query  string  true  "Fecha final (RFC 3339)"
// @Success      200   {file}    binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/history/report [get]
func (h *ListingHandler) PriceHistoryReport(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if from == nil || to == nil {
		// Por defecto: últimos 30 días
		now := time.Now()
		if to == nil {
			to = &now
		}
		if from == nil {
			f := to.AddDate(0, 0, -30)
			from = &f
		}
	}
	pdf, filename, err := h.reportUC.PriceHistoryPDF(c.Context(), id, *from, *to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "listing no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Refresh godoc
// @Summary      Refrescar la foto de mercado de un listing
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del listing"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/refresh [post]
func (h *ListingHandler) Refresh(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.refresher.RefreshListing(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "listing no encontrado"})
		}
		if errors.Is(err, domain.ErrEmptyResult) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_RESULT", Message: "el marketplace no devolvió datos para el listing"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseRange lee los query params from/to en RFC 3339; nil cuando no vienen.
func parseRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, errors.New("from debe ser RFC 3339")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, errors.New("to debe ser RFC 3339")
		}
		to = &t
	}
	return from, to, nil
}
