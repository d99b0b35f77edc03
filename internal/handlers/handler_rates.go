package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/stefanache/bnr-fx-pipeline/internal/apperrors"
	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portssvc "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/services"
	"github.com/stefanache/bnr-fx-pipeline/internal/dto"
	"github.com/stefanache/bnr-fx-pipeline/internal/middleware"
	"github.com/stefanache/bnr-fx-pipeline/internal/platform/config"
)

// ratesHandler handles HTTP requests for stored exchange rates.
type ratesHandler struct {
	rateQueryService portssvc.RateQuerySvc
}

// newRatesHandler creates a new ratesHandler.
func newRatesHandler(rqs portssvc.RateQuerySvc) *ratesHandler {
	return &ratesHandler{
		rateQueryService: rqs,
	}
}

// registerRatesRoutes registers the public rates routes.
func registerRatesRoutes(r *gin.Engine, cfg *config.Config, rateQueryService portssvc.RateQuerySvc) {
	h := newRatesHandler(rateQueryService)

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		// A misconfigured limit falls back to the default rather than
		// leaving the endpoint unlimited.
		rate, _ = limiter.NewRateFromFormatted(config.DefaultRateLimit)
	}
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	rates := r.Group("/rates", middleware.RateLimit(ipLimiter))
	{
		rates.GET("", h.getRates)
	}
}

// getRates godoc
// @Summary Query stored exchange rates
// @Description Returns the latest rates, the rates for one date, or one currency's history, depending on which query parameters are present. A date takes precedence over a currency.
// @Tags rates
// @Produce json
// @Param date query string false "Quote date (YYYY-MM-DD)"
// @Param currency query string false "ISO 4217 currency code, any case"
// @Param from query string false "History start date (YYYY-MM-DD), only with currency"
// @Success 200 {object} dto.RatesResponse
// @Failure 404 {object} map[string]string "No rates matched the query"
// @Failure 500 {object} map[string]string "Failed to retrieve rates"
// @Router /rates [get]
func (h *ratesHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RatesQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		// All parameters are optional strings; anything unbindable is
		// treated as absent.
		logger.Warn("Failed to bind rates query", slog.String("error", err.Error()))
	}

	q := domain.ResolveRateQuery(req.Date, req.Currency, req.From)

	resp, err := h.rateQueryService.Rates(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No rates matched query",
				slog.String("mode", string(q.Mode)),
				slog.String("date", q.Date),
				slog.String("currency", q.Currency),
			)
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(q.Mode)})
			return
		}
		logger.Error("Failed to retrieve rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rates"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// notFoundMessage matches the empty-result message to what was asked for.
func notFoundMessage(mode domain.QueryMode) string {
	switch mode {
	case domain.QueryByDate:
		return "No rates found for this date"
	case domain.QueryByCurrency:
		return "No rates found for this currency"
	default:
		return "No rates available"
	}
}
