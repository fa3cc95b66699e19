package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/service/staff"
	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	service    staff.StaffUseCase
	sessionTTL time.Duration
	secure     bool
}

func NewStaffHandler(service staff.StaffUseCase, sessionTTL time.Duration, secure bool) *StaffHandler {
	return &StaffHandler{service: service, sessionTTL: sessionTTL, secure: secure}
}

func (h *StaffHandler) Register(router *gin.RouterGroup, sensitive ...gin.HandlerFunc) {
	router.Group("", sensitive...).POST("/login", h.login)
}

func (h *StaffHandler) login(c *gin.Context) {
	var req domain.StaffLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Código requerido")
		return
	}

	resp, active, err := h.service.Login(c.Request.Context(), req.Code)
	if err != nil || !resp.OK() {
		relay(c, resp, err)
		return
	}

	if active {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(StaffCookie, StaffCookieActive, int(h.sessionTTL/time.Second), "/", "", h.secure, true)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
}
