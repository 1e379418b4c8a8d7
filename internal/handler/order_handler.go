package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// Checkout hands the session's cart snapshot to order submission. The
// cart is only cleared on confirmed success; any error leaves it intact.
func (h *OrderHandler) Checkout(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return
	}

	requestID := c.GetString("request_id")

	order, err := h.orderService.Submit(c.Request.Context(), sessionID, requestID)
	if err != nil {
		h.logger.Error("Failed to submit order",
			zap.String("request_id", requestID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
