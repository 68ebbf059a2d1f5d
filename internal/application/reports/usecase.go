package reports

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Buckets de agrupación soportados por Trend.
var validBuckets = map[string]bool{
	"day":     true,
	"week":    true,
	"month":   true,
	"quarter": true,
	"year":    true,
}

// ScopeResolver contrato con el resolver de permisos.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, userID string, requestedWarehouseIDs []string, required entity.Capability) ([]string, error)
}

// PDFGenerator exporta el reporte de utilidad por canal a PDF.
type PDFGenerator interface {
	ProfitReportPDF(rows []repository.ChannelProfitRow, from, to time.Time) ([]byte, error)
}

// UseCase agrega ventas committed dentro del scope de view del usuario.
// Solo lectura: no muta estado ni retiene locks. La utilidad siempre sale
// del cost_basis almacenado en cada línea, así que los reportes históricos
// no cambian cuando cambia el costo vigente del producto.
type UseCase struct {
	scope      ScopeResolver
	reportRepo repository.ReportRepository
	pdf        PDFGenerator
}

// NewUseCase construye el agregador de reportes.
func NewUseCase(scope ScopeResolver, reportRepo repository.ReportRepository, pdf PDFGenerator) *UseCase {
	return &UseCase{scope: scope, reportRepo: reportRepo, pdf: pdf}
}

// resolveFilter arma el filtro común: scope de view (bodegas explícitas se
// validan; vacío = todas las visibles), canal opcional y rango con defaults
// (últimos 30 días).
func (uc *UseCase) resolveFilter(
	ctx context.Context,
	userID string,
	warehouseIDs []string,
	channel string,
	from, to time.Time,
) (repository.ReportFilter, bool, error) {
	if channel != "" && !entity.ValidChannel(channel) {
		return repository.ReportFilter{}, false, domain.ErrInvalidChannel
	}
	scope, err := uc.scope.ResolveScope(ctx, userID, warehouseIDs, entity.CapabilityView)
	if err != nil {
		return repository.ReportFilter{}, false, err
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if to.Before(from) {
		return repository.ReportFilter{}, false, domain.ErrInvalidInput
	}
	filter := repository.ReportFilter{
		WarehouseIDs: scope,
		Channel:      channel,
		From:         from,
		To:           to,
	}
	// Scope vacío (usuario sin bodegas visibles) agrega sobre nada.
	return filter, len(scope) > 0, nil
}

// Trend devuelve la serie (inicio de periodo, revenue, profit, unidades)
// ordenada por periodo ascendente.
func (uc *UseCase) Trend(
	ctx context.Context,
	userID string,
	warehouseIDs []string,
	channel string,
	from, to time.Time,
	bucket string,
) ([]repository.TrendRow, error) {
	if bucket == "" {
		bucket = "day"
	}
	if !validBuckets[bucket] {
		return nil, domain.ErrInvalidInput
	}
	filter, hasScope, err := uc.resolveFilter(ctx, userID, warehouseIDs, channel, from, to)
	if err != nil {
		return nil, err
	}
	if !hasScope {
		return []repository.TrendRow{}, nil
	}
	return uc.reportRepo.Trend(ctx, filter, bucket)
}

// TopSellers devuelve los productos más vendidos: unidades desc, revenue
// desc y producto asc como desempates.
func (uc *UseCase) TopSellers(
	ctx context.Context,
	userID string,
	warehouseIDs []string,
	channel string,
	from, to time.Time,
	limit int,
) ([]repository.TopSellerRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	filter, hasScope, err := uc.resolveFilter(ctx, userID, warehouseIDs, channel, from, to)
	if err != nil {
		return nil, err
	}
	if !hasScope {
		return []repository.TopSellerRow{}, nil
	}
	return uc.reportRepo.TopSellers(ctx, filter, limit)
}

// ProfitReport corta revenue, costo y utilidad por canal usando el
// cost_basis capturado en cada venta.
func (uc *UseCase) ProfitReport(
	ctx context.Context,
	userID string,
	warehouseIDs []string,
	channel string,
	from, to time.Time,
) ([]repository.ChannelProfitRow, error) {
	filter, hasScope, err := uc.resolveFilter(ctx, userID, warehouseIDs, channel, from, to)
	if err != nil {
		return nil, err
	}
	if !hasScope {
		return []repository.ChannelProfitRow{}, nil
	}
	return uc.reportRepo.ProfitByChannel(ctx, filter)
}

// ProfitReportPDF genera la versión PDF del reporte de utilidad por canal.
func (uc *UseCase) ProfitReportPDF(
	ctx context.Context,
	userID string,
	warehouseIDs []string,
	channel string,
	from, to time.Time,
) ([]byte, error) {
	filter, hasScope, err := uc.resolveFilter(ctx, userID, warehouseIDs, channel, from, to)
	if err != nil {
		return nil, err
	}
	rows := []repository.ChannelProfitRow{}
	if hasScope {
		rows, err = uc.reportRepo.ProfitByChannel(ctx, filter)
		if err != nil {
			return nil, err
		}
	}
	return uc.pdf.ProfitReportPDF(rows, filter.From, filter.To)
}
