package routes

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/handlers"
	"pickupapp/internal/middleware"
)

func SetupUserRoutes(r *gin.RouterGroup, h *handlers.UserHandler, auth middleware.Authenticator) {
	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
	}

	authed := users.Group("")
	authed.Use(middleware.AuthRequired(auth), middleware.UserRequired())
	{
		authed.GET("/me", h.Me)
		authed.GET("/stats", h.Stats)
	}
}

func SetupDriverRoutes(r *gin.RouterGroup, h *handlers.DriverHandler, auth middleware.Authenticator) {
	drivers := r.Group("/drivers")
	{
		drivers.POST("/register", h.Register)
		drivers.POST("/login", h.Login)
		drivers.GET("/", h.List)
		drivers.GET("/availability", h.ListAvailability)
	}

	// Passengers rate drivers.
	drivers.POST("/:id/rate", middleware.AuthRequired(auth), middleware.UserRequired(), h.Rate)

	self := drivers.Group("")
	self.Use(middleware.AuthRequired(auth), middleware.DriverRequired())
	{
		self.GET("/me", h.Me)
		self.GET("/stats", h.Stats)
		self.GET("/recent-activity", h.RecentActivity)
		self.GET("/portfolio", h.GetPortfolio)
		self.PUT("/portfolio", h.UpdatePortfolio)
		self.POST("/availability", h.SetAvailability)
	}
}
