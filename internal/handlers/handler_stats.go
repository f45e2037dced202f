package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aripa/fish_stats_app/internal/apperrors"
	"github.com/aripa/fish_stats_app/internal/core/domain"
	portssvc "github.com/aripa/fish_stats_app/internal/core/ports/services"
	"github.com/aripa/fish_stats_app/internal/core/stats"
	"github.com/aripa/fish_stats_app/internal/dto"
	"github.com/aripa/fish_stats_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statsHandler handles HTTP requests for the analytical views.
type statsHandler struct {
	statsService portssvc.StatsSvcFacade
}

// newStatsHandler creates a new statsHandler.
func newStatsHandler(ss portssvc.StatsSvcFacade) *statsHandler {
	return &statsHandler{
		statsService: ss,
	}
}

// registerStatsRoutes registers the view, dashboard and export routes.
func registerStatsRoutes(rg *gin.RouterGroup, statsService portssvc.StatsSvcFacade) {
	h := newStatsHandler(statsService)

	rg.GET("/summary", h.getSummary)
	rg.GET("/by-month", h.getByMonth)
	rg.GET("/kpis", h.getKPIs)
	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/details-payment-method", h.getPaymentMethodDetail)
	rg.GET("/bills-by-boat", h.getBillsByBoat)

	// Views whose only parameter is the timeframe.
	for _, name := range []domain.ViewName{
		domain.ViewByEntity,
		domain.ViewBySpecies,
		domain.ViewTopFish,
		domain.ViewByPresentation,
		domain.ViewByBoat,
		domain.ViewByPaymentMethod,
		domain.ViewByStatus,
		domain.ViewDetailedAnalytics,
		domain.ViewPriceAnalysis,
		domain.ViewSeasonalAnalysis,
		domain.ViewProfitabilityAnalysis,
		domain.ViewMonthlyTrends,
		domain.ViewEntityPerformance,
		domain.ViewPresentationBreakdown,
	} {
		rg.GET("/"+string(name), h.timeframeView(name))
	}

	rg.GET("/views", h.listViews)
	rg.GET("/views/:name", h.getView)
	rg.GET("/export", h.exportView)
}

// respondServiceError maps service errors to HTTP statuses.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		logger.Error("Fact store unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": failure})
	default:
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// bindQuery binds the query string into obj, answering 400 on failure.
func bindQuery(c *gin.Context, logger *slog.Logger, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.Warn("Failed to bind query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.BindingErrorMessage(err)})
		return false
	}
	return true
}

// getSummary godoc
// @Summary Ledger summary
// @Description Bill count, total amount and total weight over the timeframe
// @Tags stats
// @Produce json
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Success 200 {object} domain.Summary
// @Failure 400 {object} map[string]string "Invalid timeframe"
// @Failure 503 {object} map[string]string "Fact store unavailable"
// @Router /stats/summary [get]
func (h *statsHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ViewQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	summary, err := h.statsService.Summary(c.Request.Context(), q.TimeframeValue())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getByMonth godoc
// @Summary Monthly totals
// @Description Weight, amount and bill count per YYYY-MM, oldest first
// @Tags stats
// @Produce json
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Success 200 {array} domain.MonthlyTotal
// @Failure 400 {object} map[string]string "Invalid timeframe"
// @Failure 503 {object} map[string]string "Fact store unavailable"
// @Router /stats/by-month [get]
func (h *statsHandler) getByMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ViewQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	months, err := h.statsService.ByMonth(c.Request.Context(), q.TimeframeValue())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute monthly totals")
		return
	}
	c.JSON(http.StatusOK, months)
}

// getKPIs godoc
// @Summary Headline KPIs
// @Description Averages, top client and latest growth over the timeframe
// @Tags stats
// @Produce json
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Success 200 {object} domain.KPIs
// @Failure 400 {object} map[string]string "Invalid timeframe"
// @Failure 503 {object} map[string]string "Fact store unavailable"
// @Router /stats/kpis [get]
func (h *statsHandler) getKPIs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ViewQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	kpis, err := h.statsService.KPIs(c.Request.Context(), q.TimeframeValue())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute KPIs")
		return
	}
	c.JSON(http.StatusOK, kpis)
}

// getDashboard godoc
// @Summary Dashboard refresh
// @Description Evaluates the dashboard views concurrently. A failing view reports its error in its own slot.
// @Tags stats
// @Produce json
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Success 200 {object} domain.Dashboard
// @Failure 400 {object} map[string]string "Invalid timeframe"
// @Router /stats/dashboard [get]
func (h *statsHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ViewQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	dashboard, err := h.statsService.Dashboard(c.Request.Context(), q.TimeframeValue())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// getPaymentMethodDetail godoc
// @Summary Payment method drill-down
// @Description Weight, amount and order count per presentation for one payment method.
// @Description Clicking the selected method again clears the selection and returns no details.
// @Tags stats
// @Produce json
// @Param method query string true "Clicked payment method"
// @Param selected query string false "Currently selected payment method"
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Success 200 {object} dto.PaymentMethodDetailResponse
// @Failure 400 {object} map[string]string "Missing method"
// @Failure 404 {object} map[string]string "No bill paid with this method"
// @Router /stats/details-payment-method [get]
func (h *statsHandler) getPaymentMethodDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.PaymentMethodQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	selected := q.Method
	if q.Selected != "" {
		selected = stats.ToggleSelection(q.Selected, q.Method)
		if selected == "" {
			logger.Debug("Payment method selection cleared", slog.String("method", q.Method))
			c.JSON(http.StatusOK, dto.PaymentMethodDetailResponse{Details: []domain.PresentationDetail{}})
			return
		}
	}

	details, err := h.statsService.PaymentMethodDetail(c.Request.Context(), selected, q.TimeframeValue())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute payment method detail")
		return
	}
	c.JSON(http.StatusOK, dto.PaymentMethodDetailResponse{Selected: selected, Details: details})
}

// getBillsByBoat godoc
// @Summary Bills of one boat
// @Description Bills of the boat, newest first. With limit set the response carries nextToken.
// @Tags stats
// @Produce json
// @Param boat query string true "Boat name (case-insensitive)"
// @Param limit query int false "Page size"
// @Param pageToken query string false "Token returned by the previous page"
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Success 200 {object} domain.BoatBillsPage
// @Failure 400 {object} map[string]string "Missing boat or invalid token"
// @Failure 404 {object} map[string]string "Unknown boat"
// @Router /stats/bills-by-boat [get]
func (h *statsHandler) getBillsByBoat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.BoatBillsQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	page, err := h.statsService.BillsByBoat(c.Request.Context(), q.Options())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list boat bills")
		return
	}
	c.JSON(http.StatusOK, page)
}

// timeframeView serves a view whose only parameter is the timeframe.
func (h *statsHandler) timeframeView(name domain.ViewName) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("view", string(name)))
		var q dto.ViewQuery
		if !bindQuery(c, logger, &q) {
			return
		}

		data, err := h.statsService.RunView(c.Request.Context(), name, domain.ViewOptions{Timeframe: q.TimeframeValue()})
		if err != nil {
			respondServiceError(c, logger, err, "Failed to compute "+string(name))
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

// listViews godoc
// @Summary List views
// @Tags stats
// @Produce json
// @Success 200 {object} dto.ViewListResponse
// @Router /stats/views [get]
func (h *statsHandler) listViews(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ViewListResponse{Views: domain.AllViews})
}

// getView godoc
// @Summary Run any view by name
// @Tags stats
// @Produce json
// @Param name path string true "View name"
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Param method query string false "Payment method (details-payment-method)"
// @Param boat query string false "Boat name (bills-by-boat)"
// @Success 200 {object} interface{}
// @Failure 400 {object} map[string]string "Unknown view or invalid parameters"
// @Failure 404 {object} map[string]string "Not found"
// @Router /stats/views/{name} [get]
func (h *statsHandler) getView(c *gin.Context) {
	name := domain.ViewName(c.Param("name"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("view", string(name)))
	var q dto.GenericViewQuery
	if !bindQuery(c, logger, &q) {
		return
	}

	data, err := h.statsService.RunView(c.Request.Context(), name, q.Options())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute view")
		return
	}
	c.JSON(http.StatusOK, data)
}
