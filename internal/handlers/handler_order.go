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

type orderHandler struct {
	orders portssvc.OrderRefreshSvc
}

func registerOrderRoutes(rg *gin.RouterGroup, orders portssvc.OrderRefreshSvc) {
	h := &orderHandler{orders: orders}

	o := rg.Group("/orders")
	{
		o.GET("/:orderID", h.getOrder)
		o.POST("/:orderID/refresh", h.refreshOrder)
	}
}

// canView lets the order owner see an order. A session holding the cart cookie sees it only
// while the order is still a draft cart.
func canView(order *domain.Order, req *domain.RequestContext) bool {
	if req == nil {
		return false
	}
	if order.IsOwnedBy(req.UserID) {
		return true
	}
	return order.IsCart && order.State == domain.OrderStateDraft && req.HasCart(order.OrderID)
}

// getOrder godoc
// @Summary Get an order
// @Description Loads an order. Draft orders of the current visitor are brought into the resolved currency.
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to load order"
// @Router /orders/{orderID} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("order_id", c.Param("orderID")))
	req := middleware.GetRequestContext(c)

	order, err := h.orders.LoadOrder(c.Request.Context(), req, c.Param("orderID"))
	if err != nil {
		h.respondError(c, logger, err, "Failed to load order")
		return
	}
	if !canView(order, req) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order, ""))
}

// refreshOrder godoc
// @Summary Refresh an order
// @Description Forces a currency refresh of the order and reports whether it changed
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 503 {object} map[string]string "No exchange rate provider configured"
// @Failure 500 {object} map[string]string "Failed to refresh order"
// @Router /orders/{orderID}/refresh [post]
func (h *orderHandler) refreshOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("order_id", c.Param("orderID")))
	req := middleware.GetRequestContext(c)

	order, outcome, err := h.orders.RefreshOrder(c.Request.Context(), req, c.Param("orderID"))
	if err != nil {
		h.respondError(c, logger, err, "Failed to refresh order")
		return
	}
	if !canView(order, req) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	logger.Info("Order refreshed", slog.String("outcome", string(outcome)))
	c.JSON(http.StatusOK, dto.ToOrderResponse(order, string(outcome)))
}

func (h *orderHandler) respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, apperrors.ErrMissingExchangeSource):
		logger.Warn("Order refresh without exchange rate provider")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No exchange rate provider configured"})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
