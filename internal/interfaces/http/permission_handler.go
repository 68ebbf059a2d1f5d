package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PermissionHandler administración del mapa de permisos (solo admins; el
// caso de uso verifica el rol del actor contra la DB).
type PermissionHandler struct {
	uc *usecase.PermissionUseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *usecase.PermissionUseCase) *PermissionHandler {
	return &PermissionHandler{uc: uc}
}

// Grant godoc
// @Summary      Otorgar capacidades sobre una bodega
// @Description  Reemplaza el conjunto completo de capacidades del usuario
//
//	sobre la bodega.
//
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GrantPermissionRequest  true  "user_id, warehouse_id, capabilities"
// @Success      200   {object}  dto.PermissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/permissions [put]
func (h *PermissionHandler) Grant(c *fiber.Ctx) error {
	var in dto.GrantPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	permission, err := h.uc.Grant(c.Context(), GetUserID(c), in.UserID, in.WarehouseID, in.Capabilities)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPermissionResponse(permission))
}

// Revoke elimina el acceso de un usuario a una bodega.
func (h *PermissionHandler) Revoke(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	warehouseID := c.Query("warehouse_id")
	if err := h.uc.Revoke(c.Context(), GetUserID(c), userID, warehouseID); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "permiso revocado"})
}

// ListByUser lista los permisos vigentes de un usuario.
func (h *PermissionHandler) ListByUser(c *fiber.Ctx) error {
	list, err := h.uc.ListByUser(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PermissionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPermissionResponse(p))
	}
	return c.JSON(out)
}

func toPermissionResponse(p *entity.Permission) dto.PermissionResponse {
	caps := make([]string, len(p.Capabilities))
	for i, c := range p.Capabilities {
		caps[i] = string(c)
	}
	return dto.PermissionResponse{
		UserID:       p.UserID,
		WarehouseID:  p.WarehouseID,
		Capabilities: caps,
		GrantedAt:    p.GrantedAt,
	}
}
