package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del ledger de inventario
// (protegido). La autorización por bodega la resuelve el caso de uso.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Apply godoc
// @Summary      Aplicar transacción de stock
// @Description  Delta firmado: positivo entrada, negativo salida. Los
//
//	ajustes exigen reason y son los únicos que admiten
//	allow_negative.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyTransactionRequest  true  "warehouse_id, product_id, kind, delta, reason, allow_negative"
// @Success      201   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/transactions [post]
func (h *LedgerHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// sale_outbound solo nace del procesador de ventas, nunca de la API.
	if in.Kind == entity.TxKindSaleOutbound {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind no permitido"})
	}
	balance, err := h.uc.ApplyTransaction(c.Context(), ledger.ApplyTransactionInput{
		WarehouseID:   in.WarehouseID,
		ProductID:     in.ProductID,
		Kind:          in.Kind,
		Delta:         in.Delta,
		ActorID:       GetUserID(c),
		Reason:        in.Reason,
		AllowNegative: in.AllowNegative,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BalanceResponse{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Quantity:    balance,
	})
}

// Balance devuelve el balance actual de una pareja (bodega, producto).
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	productID := c.Query("product_id")
	quantity, err := h.uc.ReadBalance(c.Context(), GetUserID(c), warehouseID, productID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.BalanceResponse{WarehouseID: warehouseID, ProductID: productID, Quantity: quantity})
}

// History godoc
// @Summary      Historia del ledger de una pareja
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        product_id    query  string  true   "Producto"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/ledger/history [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	list, err := h.uc.ReadHistory(c.Context(), GetUserID(c),
		c.Query("warehouse_id"), c.Query("product_id"),
		from, to, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, toTransactionResponse(tx))
	}
	return c.JSON(out)
}

// LowStock lista registros en o bajo su nivel de alerta dentro del scope.
func (h *LedgerHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.ListLowStock(c.Context(), GetUserID(c), warehouseIDsQuery(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.LowStockResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, dto.LowStockResponse{
			WarehouseID:  rec.WarehouseID,
			ProductID:    rec.ProductID,
			Quantity:     rec.Quantity,
			WarningLevel: rec.WarningLevel,
		})
	}
	return c.JSON(out)
}

// SetWarningLevel fija el umbral de alerta de stock bajo.
func (h *LedgerHandler) SetWarningLevel(c *fiber.Ctx) error {
	var in struct {
		WarehouseID  string `json:"warehouse_id"`
		ProductID    string `json:"product_id"`
		WarningLevel int64  `json:"warning_level"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetWarningLevel(c.Context(), GetUserID(c), in.WarehouseID, in.ProductID, in.WarningLevel); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "nivel de alerta actualizado"})
}

// Reconcile godoc
// @Summary      Verificar balances contra el log
// @Description  Compara el quantity materializado con la suma de deltas del
//
//	ledger por bodega; con repair=true corrige los balances
//	desviados al valor del log.
//
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        warehouse_ids  query  string  false  "IDs separados por coma; vacío = scope completo"
// @Param        repair         query  bool    false  "Corregir desviaciones"
// @Success      200  {array}   dto.ReconcileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/ledger/reconcile [post]
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	repair := c.QueryBool("repair", false)
	mismatches, err := h.uc.Reconcile(c.Context(), GetUserID(c), warehouseIDsQuery(c), repair)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ReconcileResponse, 0, len(mismatches))
	for _, m := range mismatches {
		out = append(out, dto.ReconcileResponse{
			WarehouseID:    m.WarehouseID,
			ProductID:      m.ProductID,
			RecordQuantity: m.RecordQuantity,
			LedgerSum:      m.LedgerSum,
			Repaired:       m.Repaired,
		})
	}
	return c.JSON(out)
}

func toTransactionResponse(tx *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                tx.ID,
		WarehouseID:       tx.WarehouseID,
		ProductID:         tx.ProductID,
		Kind:              tx.Kind,
		Delta:             tx.Delta,
		ResultingQuantity: tx.ResultingQuantity,
		Sequence:          tx.Sequence,
		ActorID:           tx.ActorID,
		Reason:            tx.Reason,
		SaleID:            tx.SaleID,
		CreatedAt:         tx.CreatedAt,
	}
}

// parseTimeQuery lee un query param RFC3339 opcional.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// warehouseIDsQuery lee warehouse_ids como lista separada por comas.
func warehouseIDsQuery(c *fiber.Ctx) []string {
	raw := c.Query("warehouse_ids")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
