package api

import (
	"net/http"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/service/orders"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service orders.OrdersUseCase
}

type checkPaymentRequest struct {
	OrderID int64 `json:"orderid" binding:"required"`
}

func NewOrderHandler(service orders.OrdersUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/create", h.create)
	router.POST("/check", h.check)
	router.POST("/confirm", h.confirm)
}

func (h *OrderHandler) create(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Faltan datos requeridos para crear la orden")
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), req)
	relay(c, resp, err)
}

func (h *OrderHandler) check(c *gin.Context) {
	var req checkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Falta orderid")
		return
	}

	resp, err := h.service.CheckPaid(c.Request.Context(), req.OrderID)
	relay(c, resp, err)
}

func (h *OrderHandler) confirm(c *gin.Context) {
	var req domain.ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Faltan datos requeridos (orderid, email)")
		return
	}

	sent, err := h.service.ConfirmOrder(c.Request.Context(), req)
	if err != nil {
		internalError(c, err)
		return
	}
	if !sent {
		// 200 so the purchase flow is never interrupted by a mail failure.
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Error enviando email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email enviado"})
}

func (h *OrderHandler) orderTickets(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		badRequest(c, "Falta Order ID")
		return
	}

	resp, err := h.service.OrderTickets(c.Request.Context(), orderID)
	relay(c, resp, err)
}
