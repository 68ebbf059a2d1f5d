package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SalesHandler maneja las peticiones HTTP de ventas (protegido).
type SalesHandler struct {
	processor *sales.Processor
}

// NewSalesHandler construye el handler.
func NewSalesHandler(processor *sales.Processor) *SalesHandler {
	return &SalesHandler{processor: processor}
}

// Create godoc
// @Summary      Crear venta
// @Description  Descuenta stock y registra la venta de forma atómica. Si
//
//	cualquier línea falla por stock insuficiente no queda ni
//	venta ni entradas de ledger. unit_price en cero toma el
//	precio del producto según el canal.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "warehouse_id, channel, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]sales.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.SaleItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	sale, err := h.processor.CreateSale(c.Context(), GetUserID(c), in.WarehouseID, in.Channel, items)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID devuelve una venta con sus items.
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.processor.GetSale(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Void godoc
// @Summary      Anular venta
// @Description  Registra entradas compensatorias por cada línea y marca la
//
//	venta como voided. Las filas originales no se tocan; anular
//	dos veces devuelve 409.
//
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SalesHandler) Void(c *fiber.Ctx) error {
	sale, err := h.processor.VoidSale(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// List lista ventas de una bodega del scope del actor.
func (h *SalesHandler) List(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	list, err := h.processor.ListSales(c.Context(), GetUserID(c), c.Query("warehouse_id"),
		from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return c.JSON(out)
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			CostBasis: it.CostBasis,
		})
	}
	return dto.SaleResponse{
		ID:           s.ID,
		WarehouseID:  s.WarehouseID,
		Channel:      s.Channel,
		ActorID:      s.ActorID,
		TotalRevenue: s.TotalRevenue,
		TotalProfit:  s.TotalProfit,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		VoidedAt:     s.VoidedAt,
		VoidedBy:     s.VoidedBy,
		Items:        items,
	}
}
