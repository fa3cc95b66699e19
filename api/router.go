package api

import (
	"log"
	"net/http"

	"github.com/Domenick1991/foodday/config"
	"github.com/Domenick1991/foodday/internal/cache"
	"github.com/Domenick1991/foodday/internal/service/auth"
	"github.com/Domenick1991/foodday/internal/service/content"
	"github.com/Domenick1991/foodday/internal/service/orders"
	"github.com/Domenick1991/foodday/internal/service/staff"
	"github.com/Domenick1991/foodday/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Orders  orders.OrdersUseCase
	Auth    auth.AuthUseCase
	Tickets tickets.TicketsUseCase
	Staff   staff.StaffUseCase
	Content content.ContentUseCase
	Limiter RateLimiter
}

func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Printf("[api] invalid trusted proxies %v, trusting none: %v", cfg.HTTP.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Logger(), gin.Recovery(), RequestID())

	sensitive := func(scope string) []gin.HandlerFunc {
		if !cfg.Limits.Enabled || svc.Limiter == nil {
			return nil
		}
		return []gin.HandlerFunc{RateLimit(svc.Limiter, cfg.Limits.Prefix+":"+scope, cache.Bucket{
			Capacity:       cfg.Limits.Capacity,
			RefillTokens:   cfg.Limits.RefillTokens,
			RefillInterval: cfg.Limits.RefillInterval,
			TTL:            cfg.Limits.TTL,
		})}
	}

	apiGroup := router.Group("/api")

	orderHandler := NewOrderHandler(svc.Orders)
	orderHandler.Register(apiGroup.Group("/orders"))

	NewAuthHandler(svc.Auth).Register(apiGroup.Group("/auth"), sensitive("auth")...)

	ticketsGroup := apiGroup.Group("/tickets")
	NewTicketHandler(svc.Tickets).Register(ticketsGroup, RequireBearer(), RequireStaffSession())
	ticketsGroup.GET("/get", orderHandler.orderTickets)

	NewStaffHandler(svc.Staff, cfg.Staff.SessionTTL, cfg.IsProduction()).Register(apiGroup.Group("/staff"), sensitive("staff")...)

	NewContentHandler(svc.Content).Register(apiGroup)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}
