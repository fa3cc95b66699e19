package api

import (
	"net/http"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/service/auth"
	"github.com/gin-gonic/gin"
)

const (
	magicLinkAck = "Si el email tiene entradas, se envió el link."
	resetAck     = "Si el email está registrado, te enviamos un link para restablecer tu contraseña."
)

type AuthHandler struct {
	service auth.AuthUseCase
}

func NewAuthHandler(service auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup, sensitive ...gin.HandlerFunc) {
	limited := router.Group("", sensitive...)
	limited.POST("/request-magic-link", h.requestMagicLink)
	limited.POST("/forgot-password", h.forgotPassword)
	router.POST("/login", h.login)
	router.POST("/login-magic-link", h.loginMagicLink)
	router.POST("/set-password", h.setPassword)
}

func (h *AuthHandler) requestMagicLink(c *gin.Context) {
	var req domain.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email requerido")
		return
	}

	h.service.RequestMagicLink(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": magicLinkAck})
}

func (h *AuthHandler) forgotPassword(c *gin.Context) {
	var req domain.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email requerido")
		return
	}

	h.service.ForgotPassword(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": resetAck})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email y password requeridos")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	relay(c, resp, err)
}

func (h *AuthHandler) loginMagicLink(c *gin.Context) {
	var req domain.MagicLinkLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Token requerido")
		return
	}

	resp, err := h.service.LoginWithMagicLink(c.Request.Context(), req)
	relay(c, resp, err)
}

func (h *AuthHandler) setPassword(c *gin.Context) {
	var req domain.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Faltan datos requeridos")
		return
	}

	resp, err := h.service.SetPassword(c.Request.Context(), req)
	relay(c, resp, err)
}
