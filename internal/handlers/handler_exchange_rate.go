package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/dto"
	"github.com/SscSPs/currency_resolver/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	importService       portssvc.ExchangeImportSvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, importer portssvc.ExchangeImportSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
		importService:       importer,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, exchangeRateService portssvc.ExchangeRateSvcFacade, importer portssvc.ExchangeImportSvc) {
	h := newExchangeRateHandler(exchangeRateService, importer)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", requireAuth, h.createExchangeRate)
		exchangeRates.POST("/import", requireAuth, h.importExchangeRates)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Store a manual exchange rate
// @Description Stores a rate for the active provider. Manual rates survive later imports.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "No exchange rate provider configured"
// @Failure 500 {object} map[string]string "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	// Get creator UserID from context
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrMissingExchangeSource):
			logger.Warn("Exchange rate rejected, no provider configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No exchange rate provider configured"})
		default:
			logger.Error("Failed to create exchange rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("provider", createdRate.ProviderID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// importExchangeRates godoc
// @Summary Import exchange rates
// @Description Fetches rates from a source and replaces its stored table. An empty body imports the active provider.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   source body dto.ImportExchangeRatesRequest false "Source to import"
// @Success 200 {object} dto.ImportExchangeRatesResponse
// @Failure 400 {object} map[string]string "Unknown source"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Exchange rate source failed"
// @Failure 503 {object} map[string]string "No exchange rate provider configured"
// @Security BearerAuth
// @Router /exchange-rates/import [post]
func (h *exchangeRateHandler) importExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportExchangeRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for ImportExchangeRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var (
		rows int
		err  error
	)
	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = "active"
		rows, err = h.importService.ImportActive(c.Request.Context())
	} else {
		rows, err = h.importService.Import(c.Request.Context(), sourceID)
	}
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMissingExchangeSource):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No exchange rate provider configured"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Exchange rate import failed", slog.String("source", sourceID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Exchange rate source failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ImportExchangeRatesResponse{SourceID: sourceID, Rows: rows})
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the stored rate of the active provider for a currency pair
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Failure 503 {object} map[string]string "No exchange rate provider configured"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	// Basic validation - service likely does more thorough validation
	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))

	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error getting exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Exchange rate not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		case errors.Is(err, apperrors.ErrMissingExchangeSource):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No exchange rate provider configured"})
		default:
			logger.Error("Failed to get exchange rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
