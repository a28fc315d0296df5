package routes

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/handlers"
	"pickupapp/internal/middleware"
)

func SetupNotificationRoutes(r *gin.RouterGroup, h *handlers.NotificationHandler, auth middleware.Authenticator) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(auth))
	{
		notifications.GET("/", h.List)
		notifications.POST("/:id/mark-as-read", h.MarkRead)
	}
}

func SetupDiscountRoutes(r *gin.RouterGroup, h *handlers.DiscountHandler) {
	discounts := r.Group("/discounts")
	{
		discounts.GET("/active", h.Active)
		discounts.GET("/validate/:code", h.Validate)
	}
}
