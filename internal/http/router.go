package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/internal/http/handlers"
	"github.com/nicolasconil/gp-frontend-sub000/internal/http/middleware"
)

func BuildRouter(
	ah *handlers.AuthHandlers,
	ch *handlers.CartHandlers,
	kh *handlers.CheckoutHandlers,
	adh *handlers.AdminHandlers,
	ph *handlers.PolicyHandlers,
	device *middleware.DeviceMW,
	authmw *middleware.AuthMW,
	cb *middleware.CasbinMW,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), device.WithDevice())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/logout", ah.Logout)
	auth.GET("/me", ah.Me)

	cart := r.Group("/cart")
	cart.GET("", ch.Get)
	cart.POST("/items", ch.AddItem)
	cart.PATCH("/items", ch.UpdateQuantity)
	cart.DELETE("/items", ch.RemoveItem)
	cart.DELETE("", ch.Clear)

	checkout := r.Group("/checkout")
	checkout.POST("", kh.Submit)
	checkout.GET("/result", kh.Result)

	adm := r.Group("/admin").Use(authmw.WithSession(), cb.Enforce())
	adm.Any("/*path", adh.Dispatch)

	pol := r.Group("/policies").Use(authmw.WithSession(), cb.Enforce())
	pol.GET("", ph.List)
	pol.POST("", ph.Add)
	pol.DELETE("", ph.Remove)

	return r
}
