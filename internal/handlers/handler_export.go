package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/dto"
	"github.com/aripa/fish_stats_app/internal/middleware"
	"github.com/aripa/fish_stats_app/internal/platform/metrics"
	"github.com/aripa/fish_stats_app/internal/utils/export"
	"github.com/gin-gonic/gin"
)

// exportView godoc
// @Summary Export a view
// @Description Renders any view as an XLSX, PDF or CSV document whose columns are the view's field names
// @Tags stats
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/pdf,text/csv
// @Param view query string true "View name"
// @Param format query string true "Document format (xlsx, pdf, csv)"
// @Param timeframe query string false "Trailing window (all, 1m, 3m, 6m)" default(all)
// @Param method query string false "Payment method (details-payment-method)"
// @Param boat query string false "Boat name (bills-by-boat)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Not found"
// @Router /stats/export [get]
func (h *statsHandler) exportView(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ExportQuery
	if !bindQuery(c, logger, &q) {
		return
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := domain.ViewName(q.View)
	logger = logger.With(slog.String("view", q.View), slog.String("format", string(format)))

	start := time.Now()
	body, err := h.renderView(c, name, q.Options(), format)
	metrics.ObserveExport(string(format), metrics.ResultOf(err), time.Since(start))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export view")
		return
	}

	logger.Info("View exported", slog.Int("bytes", len(body)))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (h *statsHandler) renderView(c *gin.Context, name domain.ViewName, opts domain.ViewOptions, format export.Format) ([]byte, error) {
	data, err := h.statsService.RunView(c.Request.Context(), name, opts)
	if err != nil {
		return nil, err
	}
	if page, ok := data.(domain.BoatBillsPage); ok {
		data = page.Bills
	}

	table, err := export.TableOf(string(name), data)
	if err != nil {
		return nil, err
	}
	return export.Render(table, format)
}
