package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketsUseCase
}

type conflictResponse struct {
	errorResponse
	Ticket map[string]any `json:"ticket,omitempty"`
}

func NewTicketHandler(service tickets.TicketsUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

// Register mounts the ticket-holder routes behind holder and the scan route behind staff.
func (h *TicketHandler) Register(router *gin.RouterGroup, holder, staff gin.HandlerFunc) {
	router.GET("", holder, h.mine)
	router.PUT("/:prodinfoid", holder, h.update)
	router.POST("/email", h.sendEmail)
	router.POST("/scan", staff, h.scan)
}

func (h *TicketHandler) mine(c *gin.Context) {
	resp, err := h.service.Mine(c.Request.Context(), bearerToken(c))
	relay(c, resp, err)
}

func (h *TicketHandler) update(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		badRequest(c, "Datos de entrada inválidos")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), bearerToken(c), c.Param("prodinfoid"), body)
	relay(c, resp, err)
}

func (h *TicketHandler) scan(c *gin.Context) {
	var req domain.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Token requerido")
		return
	}

	result, err := h.service.Scan(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, tickets.ErrUpstream) {
			respondError(c, http.StatusBadGateway, CodeUpstream, "No se pudo validar la entrada")
			return
		}
		if errors.Is(err, commerce.ErrMalformedResponse) {
			err = errors.New("scan upstream returned a non-JSON body")
		}
		internalError(c, err)
		return
	}

	switch result.Outcome {
	case domain.ScanValid:
		c.Data(result.Status, "application/json; charset=utf-8", result.Body)
	case domain.ScanAlreadyUsed:
		message := result.Message
		if message == "" {
			message = "La entrada ya fue utilizada"
		}
		c.JSON(http.StatusConflict, conflictResponse{
			errorResponse: errorResponse{Success: false, Error: CodeAlreadyUsed, Message: message},
			Ticket:        result.Ticket,
		})
	default:
		status := result.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		message := result.Message
		if message == "" {
			message = "Entrada inválida"
		}
		respondError(c, status, CodeInvalidTicket, message)
	}
}

func (h *TicketHandler) sendEmail(c *gin.Context) {
	var req domain.TicketAccess
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Faltan datos requeridos")
		return
	}

	if err := h.service.SendAccessEmail(c.Request.Context(), req); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email enviado correctamente"})
}
