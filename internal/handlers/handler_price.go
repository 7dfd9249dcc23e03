package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/dto"
	"github.com/SscSPs/currency_resolver/internal/middleware"
	"github.com/gin-gonic/gin"
)

type priceHandler struct {
	resolver  portssvc.CurrencyResolverSvc
	converter portssvc.PriceConverterSvc
}

func registerPriceRoutes(rg *gin.RouterGroup, resolver portssvc.CurrencyResolverSvc, converter portssvc.PriceConverterSvc) {
	h := &priceHandler{resolver: resolver, converter: converter}
	rg.POST("/prices/convert", h.convertPrice)
}

// convertPrice godoc
// @Summary Convert an amount
// @Description Converts an amount into the target currency, or the currency resolved for the request when no target is given
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   price body dto.ConvertPriceRequest true "Amount to convert"
// @Success 200 {object} dto.ConvertPriceResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown currency"
// @Failure 503 {object} map[string]string "No exchange rate provider configured"
// @Failure 500 {object} map[string]string "Failed to convert price"
// @Router /prices/convert [post]
func (h *priceHandler) convertPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertPrice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	original, err := domain.NewMoney(req.Amount, req.CurrencyCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := req.TargetCurrency
	if target == "" {
		target = h.resolver.GetCurrency(c.Request.Context(), middleware.GetRequestContext(c))
	}

	converted, err := h.converter.Convert(c.Request.Context(), original, target)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMissingExchangeSource):
			logger.Warn("Price conversion without exchange rate provider")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No exchange rate provider configured"})
		case errors.Is(err, apperrors.ErrUnknownCurrency), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to convert price", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert price"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertPriceResponse{Original: original, Converted: converted})
}
