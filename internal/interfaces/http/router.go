package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC  *usecase.WarehouseUseCase
	ProductUC    *usecase.ProductUseCase
	PermissionUC *usecase.PermissionUseCase
	LedgerUC     *ledger.UseCase
	SaleProc     *sales.Processor
	ReportsUC    *reports.UseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Rename)
	warehouses.Post("/:id/archive", warehouseHandler.Archive)
	warehouses.Post("/:id/restore", warehouseHandler.Restore)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Put("/:id/cost", productHandler.SetCost)

	// Permissions (protegido; el caso de uso exige rol admin)
	permissionHandler := NewPermissionHandler(deps.PermissionUC)
	protected.Put("/permissions", permissionHandler.Grant)
	protected.Delete("/permissions", permissionHandler.Revoke)
	protected.Get("/users/:id/permissions", permissionHandler.ListByUser)

	// Ledger de inventario (protegido)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup.Post("/transactions", ledgerHandler.Apply)
	ledgerGroup.Get("/balance", ledgerHandler.Balance)
	ledgerGroup.Get("/history", ledgerHandler.History)
	ledgerGroup.Get("/low-stock", ledgerHandler.LowStock)
	ledgerGroup.Put("/warning-level", ledgerHandler.SetWarningLevel)
	ledgerGroup.Post("/reconcile", ledgerHandler.Reconcile)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SaleProc)
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Post("/:id/void", salesHandler.Void)

	// Reports (protegido, solo lectura)
	reportsGroup := protected.Group("/reports")
	reportsHandler := NewReportsHandler(deps.ReportsUC)
	reportsGroup.Get("/trend", reportsHandler.Trend)
	reportsGroup.Get("/top-sellers", reportsHandler.TopSellers)
	reportsGroup.Get("/profit-by-channel", reportsHandler.ProfitByChannel)
	reportsGroup.Get("/profit-by-channel/pdf", reportsHandler.ProfitByChannelPDF)
}
