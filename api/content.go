package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/service/content"
	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	service content.ContentUseCase
}

func NewContentHandler(service content.ContentUseCase) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) Register(router *gin.RouterGroup) {
	router.GET("/faqs", h.faqs)
	router.POST("/newsletter", h.subscribe)
	router.POST("/sponsors", h.sponsorLead)
	router.GET("/sponsors/list", h.sponsors)
}

func (h *ContentHandler) faqs(c *gin.Context) {
	faqs, err := h.service.FAQs(c.Request.Context())
	if err != nil {
		var statusErr *content.UpstreamStatusError
		if errors.As(err, &statusErr) {
			c.JSON(statusErr.Status, gin.H{"success": false, "data": []json.RawMessage{}})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": faqs})
}

func (h *ContentHandler) subscribe(c *gin.Context) {
	var req domain.Subscription
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email requerido")
		return
	}

	if err := h.service.Subscribe(c.Request.Context(), req); err != nil {
		if errors.Is(err, content.ErrSubscribeRejected) {
			respondError(c, http.StatusInternalServerError, CodeUpstream, "Error suscribiendo")
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ContentHandler) sponsorLead(c *gin.Context) {
	var req domain.SponsorLead
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Faltan datos de contacto")
		return
	}

	resp, err := h.service.SubmitSponsorLead(c.Request.Context(), req)
	relay(c, resp, err)
}

func (h *ContentHandler) sponsors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.service.Sponsors(c.Request.Context())})
}
