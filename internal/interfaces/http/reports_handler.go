package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
)

// ReportsHandler maneja las peticiones HTTP de reportes (protegido, solo
// lectura). Todos los reportes agregan únicamente ventas committed dentro
// del scope de view del usuario.
type ReportsHandler struct {
	uc *reports.UseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(uc *reports.UseCase) *ReportsHandler {
	return &ReportsHandler{uc: uc}
}

// Trend godoc
// @Summary      Serie de ventas por periodo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_ids  query  string  false  "IDs separados por coma; vacío = scope completo"
// @Param        channel        query  string  false  "retail | wholesale; vacío = ambos"
// @Param        from           query  string  false  "RFC3339; default: to - 30 días"
// @Param        to             query  string  false  "RFC3339; default: ahora"
// @Param        bucket         query  string  false  "day | week | month | quarter | year; default day"
// @Success      200  {array}   dto.TrendRowResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/trend [get]
func (h *ReportsHandler) Trend(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	rows, err := h.uc.Trend(c.Context(), GetUserID(c), warehouseIDsQuery(c), c.Query("channel"), from, to, c.Query("bucket"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.TrendRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TrendRowResponse{
			BucketStart: r.BucketStart,
			Revenue:     r.Revenue,
			Profit:      r.Profit,
			UnitsSold:   r.UnitsSold,
		})
	}
	return c.JSON(out)
}

// TopSellers devuelve el ranking de productos más vendidos del período.
func (h *ReportsHandler) TopSellers(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	rows, err := h.uc.TopSellers(c.Context(), GetUserID(c), warehouseIDsQuery(c), c.Query("channel"), from, to, c.QueryInt("limit", 10))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.TopSellerResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopSellerResponse{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			SKU:         r.SKU,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue,
		})
	}
	return c.JSON(out)
}

// ProfitByChannel corta revenue, costo y utilidad por canal.
func (h *ReportsHandler) ProfitByChannel(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	rows, err := h.uc.ProfitReport(c.Context(), GetUserID(c), warehouseIDsQuery(c), c.Query("channel"), from, to)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ChannelProfitResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ChannelProfitResponse{
			Channel:   r.Channel,
			SaleCount: r.SaleCount,
			UnitsSold: r.UnitsSold,
			Revenue:   r.Revenue,
			Cost:      r.Cost,
			Profit:    r.Profit,
		})
	}
	return c.JSON(out)
}

// ProfitByChannelPDF exporta el reporte de utilidad por canal como PDF.
func (h *ReportsHandler) ProfitByChannelPDF(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido (RFC3339)"})
	}
	pdfBytes, err := h.uc.ProfitReportPDF(c.Context(), GetUserID(c), warehouseIDsQuery(c), c.Query("channel"), from, to)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="utilidad-por-canal.pdf"`)
	return c.Send(pdfBytes)
}

// reportRange lee from/to RFC3339 opcionales; los ceros se resuelven con
// defaults en el caso de uso.
func reportRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}
