package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubScope struct {
	scope          []string
	err            error
	lastUserID     string
	lastRequested  []string
	lastCapability entity.Capability
}

func (s *stubScope) ResolveScope(_ context.Context, userID string, requested []string, required entity.Capability) ([]string, error) {
	s.lastUserID = userID
	s.lastRequested = requested
	s.lastCapability = required
	if s.err != nil {
		return nil, s.err
	}
	return s.scope, nil
}

type stubReportRepo struct {
	trendRows  []repository.TrendRow
	topRows    []repository.TopSellerRow
	profitRows []repository.ChannelProfitRow

	lastFilter repository.ReportFilter
	lastBucket string
	lastLimit  int
	calls      int
}

func (s *stubReportRepo) Trend(_ context.Context, filter repository.ReportFilter, bucket string) ([]repository.TrendRow, error) {
	s.calls++
	s.lastFilter = filter
	s.lastBucket = bucket
	return s.trendRows, nil
}

func (s *stubReportRepo) TopSellers(_ context.Context, filter repository.ReportFilter, limit int) ([]repository.TopSellerRow, error) {
	s.calls++
	s.lastFilter = filter
	s.lastLimit = limit
	return s.topRows, nil
}

func (s *stubReportRepo) ProfitByChannel(_ context.Context, filter repository.ReportFilter) ([]repository.ChannelProfitRow, error) {
	s.calls++
	s.lastFilter = filter
	return s.profitRows, nil
}

type stubPDF struct {
	lastRows []repository.ChannelProfitRow
	lastFrom time.Time
	lastTo   time.Time
	out      []byte
}

func (s *stubPDF) ProfitReportPDF(rows []repository.ChannelProfitRow, from, to time.Time) ([]byte, error) {
	s.lastRows = rows
	s.lastFrom = from
	s.lastTo = to
	return s.out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const reportUser = "user-reportes"

func buildReports(scope []string) (*reports.UseCase, *stubScope, *stubReportRepo, *stubPDF) {
	sc := &stubScope{scope: scope}
	repo := &stubReportRepo{}
	pdf := &stubPDF{out: []byte("%PDF-1.7")}
	return reports.NewUseCase(sc, repo, pdf), sc, repo, pdf
}

func dayRange() (time.Time, time.Time) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Los reportes consultan con capability view y el scope que devolvió el
// resolver, nunca con las bodegas crudas de la petición.
func TestTrend_UsaScopeDeView(t *testing.T) {
	uc, sc, repo, _ := buildReports([]string{"bodega-a", "bodega-b"})
	from, to := dayRange()

	_, err := uc.Trend(context.Background(), reportUser, []string{"bodega-a", "bodega-b", "bodega-x"},
		"retail", from, to, "week")

	require.NoError(t, err)
	assert.Equal(t, entity.CapabilityView, sc.lastCapability)
	assert.Equal(t, []string{"bodega-a", "bodega-b", "bodega-x"}, sc.lastRequested)
	assert.Equal(t, []string{"bodega-a", "bodega-b"}, repo.lastFilter.WarehouseIDs,
		"el filtro lleva el scope resuelto, no lo solicitado")
	assert.Equal(t, "week", repo.lastBucket)
	assert.Equal(t, "retail", repo.lastFilter.Channel)
}

// Scope vacío agrega sobre nada: resultado vacío, sin error y sin tocar
// la base.
func TestReportes_ScopeVacioDevuelveVacio(t *testing.T) {
	uc, _, repo, _ := buildReports(nil)
	from, to := dayRange()

	trend, err := uc.Trend(context.Background(), reportUser, nil, "", from, to, "day")
	require.NoError(t, err)
	assert.Empty(t, trend)

	top, err := uc.TopSellers(context.Background(), reportUser, nil, "", from, to, 5)
	require.NoError(t, err)
	assert.Empty(t, top)

	profit, err := uc.ProfitReport(context.Background(), reportUser, nil, "", from, to)
	require.NoError(t, err)
	assert.Empty(t, profit)

	assert.Zero(t, repo.calls, "sin scope no hay consultas al repositorio")
}

// Bucket default y buckets inválidos.
func TestTrend_Buckets(t *testing.T) {
	uc, _, repo, _ := buildReports([]string{"bodega-a"})
	from, to := dayRange()

	_, err := uc.Trend(context.Background(), reportUser, nil, "", from, to, "")
	require.NoError(t, err)
	assert.Equal(t, "day", repo.lastBucket, "sin bucket se agrupa por día")

	_, err = uc.Trend(context.Background(), reportUser, nil, "", from, to, "hour")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Canal desconocido se rechaza antes de resolver scope.
func TestReportes_CanalInvalido(t *testing.T) {
	uc, sc, _, _ := buildReports([]string{"bodega-a"})
	from, to := dayRange()

	_, err := uc.ProfitReport(context.Background(), reportUser, nil, "online", from, to)

	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
	assert.Empty(t, sc.lastUserID, "el canal se valida antes de resolver permisos")
}

// Rango invertido es error de entrada; fechas en cero toman el default de
// los últimos 30 días.
func TestReportes_RangoDeFechas(t *testing.T) {
	uc, _, repo, _ := buildReports([]string{"bodega-a"})
	from, to := dayRange()

	_, err := uc.ProfitReport(context.Background(), reportUser, nil, "", to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "to anterior a from es inválido")

	_, err = uc.ProfitReport(context.Background(), reportUser, nil, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), repo.lastFilter.To, time.Minute)
	assert.WithinDuration(t, repo.lastFilter.To.AddDate(0, 0, -30), repo.lastFilter.From, time.Minute)
}

// El error del resolver de permisos se propaga tal cual.
func TestReportes_PropagaDenegacion(t *testing.T) {
	uc, sc, _, _ := buildReports(nil)
	sc.err = domain.ErrPermissionDenied
	from, to := dayRange()

	_, err := uc.TopSellers(context.Background(), reportUser, []string{"bodega-x"}, "", from, to, 10)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// Límites fuera de rango caen al default de 10.
func TestTopSellers_ClampeaLimite(t *testing.T) {
	uc, _, repo, _ := buildReports([]string{"bodega-a"})
	from, to := dayRange()

	_, err := uc.TopSellers(context.Background(), reportUser, nil, "", from, to, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)

	_, err = uc.TopSellers(context.Background(), reportUser, nil, "", from, to, 500)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)

	_, err = uc.TopSellers(context.Background(), reportUser, nil, "", from, to, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastLimit)
}

// El PDF delega las filas del corte por canal y el rango resuelto.
func TestProfitReportPDF_DelegaFilasYRango(t *testing.T) {
	uc, _, repo, pdf := buildReports([]string{"bodega-a"})
	from, to := dayRange()
	repo.profitRows = []repository.ChannelProfitRow{
		{
			Channel:   entity.ChannelRetail,
			SaleCount: 4,
			UnitsSold: 12,
			Revenue:   decimal.NewFromInt(600),
			Cost:      decimal.NewFromInt(360),
			Profit:    decimal.NewFromInt(240),
		},
	}

	out, err := uc.ProfitReportPDF(context.Background(), reportUser, nil, "", from, to)

	require.NoError(t, err)
	assert.Equal(t, pdf.out, out)
	assert.Equal(t, repo.profitRows, pdf.lastRows)
	assert.Equal(t, from, pdf.lastFrom)
	assert.Equal(t, to, pdf.lastTo)
}

// Sin scope el PDF igual se genera, con cero filas.
func TestProfitReportPDF_SinScopeGeneraVacio(t *testing.T) {
	uc, _, repo, pdf := buildReports(nil)
	from, to := dayRange()

	out, err := uc.ProfitReportPDF(context.Background(), reportUser, nil, "", from, to)

	require.NoError(t, err)
	assert.Equal(t, pdf.out, out)
	assert.Empty(t, pdf.lastRows)
	assert.Zero(t, repo.calls)
}
