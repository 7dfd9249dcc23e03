package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/dto"
	"github.com/SscSPs/currency_resolver/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyCookieMaxAge keeps a visitor's currency choice for one day.
const currencyCookieMaxAge = 86400

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
	resolver        portssvc.CurrencyResolverSvc
	settings        portssvc.SettingsProvider
	secureCookies   bool
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(services *portssvc.ServiceContainer, secureCookies bool) *currencyHandler {
	return &currencyHandler{
		currencyService: services.Currency,
		resolver:        services.Resolver,
		settings:        services.Settings,
		secureCookies:   secureCookies,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, services *portssvc.ServiceContainer, secureCookies bool) {
	h := newCurrencyHandler(services, secureCookies)

	rg.GET("/currency", h.getResolvedCurrency)
	rg.PUT("/currency", h.selectCurrency)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.POST("", requireAuth, h.createCurrency)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

// getResolvedCurrency godoc
// @Summary Get the currency of the current request
// @Description Returns the currency resolved for this visitor with the configured mapping
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.ResolvedCurrencyResponse
// @Router /currency [get]
func (h *currencyHandler) getResolvedCurrency(c *gin.Context) {
	req := middleware.GetRequestContext(c)
	code := h.resolver.GetCurrency(c.Request.Context(), req)

	c.JSON(http.StatusOK, dto.ResolvedCurrencyResponse{
		CurrencyCode: code,
		Mapping:      string(h.settings.ResolverSettings().Mapping),
	})
}

// selectCurrency godoc
// @Summary Select a currency
// @Description Stores the visitor's currency choice in the currency cookie for one day
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.SelectCurrencyRequest true "Selected currency"
// @Success 200 {object} dto.ResolvedCurrencyResponse
// @Failure 400 {object} map[string]string "Invalid or disabled currency"
// @Failure 500 {object} map[string]string "Failed to select currency"
// @Router /currency [put]
func (h *currencyHandler) selectCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SelectCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SelectCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	enabled, err := h.currencyService.EnabledCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load enabled currencies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select currency"})
		return
	}
	if !enabled.Has(req.CurrencyCode) {
		logger.Warn("Rejected selection of disabled currency", slog.String("currency_code", req.CurrencyCode))
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Currency '%s' is not available", req.CurrencyCode)})
		return
	}

	settings := h.settings.ResolverSettings()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(settings.EffectiveCookieName(), req.CurrencyCode, currencyCookieMaxAge, "/", "", h.secureCookies, false)

	logger.Info("Currency selected", slog.String("currency_code", req.CurrencyCode))
	c.JSON(http.StatusOK, dto.ResolvedCurrencyResponse{
		CurrencyCode: req.CurrencyCode,
		Mapping:      string(settings.Mapping),
	})
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Adds or updates a currency (admin operation)
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Currency code already exists"
// @Failure 500 {object} map[string]string "Failed to create currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCurrency", slog.String("error", err.Error()))
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
	logger.Info("Received request to create currency", slog.String("currency_code", req.CurrencyCode))

	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate currency", slog.String("currency_code", req.CurrencyCode))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Currency code '%s' already exists", req.CurrencyCode)})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create currency"})
		}
		return
	}

	logger.Info("Currency created successfully", slog.String("currency_code", createdCurrency.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves details for a specific currency by its 3-letter code
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to retrieve currency"
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyCode := c.Param("code")

	if len(currencyCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return
	}

	logger = logger.With(slog.String("currency_code", currencyCode))

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else {
			logger.Error("Failed to get currency from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Description Retrieves every known currency, enabled or not
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} map[string]string "Failed to list currencies"
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currencies from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}
