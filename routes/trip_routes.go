package routes

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/handlers"
	"pickupapp/internal/middleware"
)

func SetupTourRoutes(r *gin.RouterGroup, h *handlers.TourHandler, auth middleware.Authenticator) {
	tours := r.Group("/tours")
	{
		tours.GET("/", middleware.OptionalAuth(auth), h.List)
		tours.GET("/:id", h.Get)
		tours.POST("/", middleware.AuthRequired(auth), middleware.DriverRequired(), h.Create)
	}
}

func SetupBookingRoutes(r *gin.RouterGroup, h *handlers.BookingHandler, auth middleware.Authenticator) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(auth))

	user := middleware.UserRequired()
	driver := middleware.DriverRequired()
	{
		bookings.POST("/", user, h.Create)
		bookings.GET("/my-bookings", user, h.MyBookings)
		bookings.PUT("/:id/cancel", user, h.Cancel)

		bookings.GET("/driver-bookings", driver, h.DriverBookings)
		bookings.PUT("/:id/complete", driver, h.Complete)
	}
}

func SetupPickupRoutes(r *gin.RouterGroup, h *handlers.PickupHandler, auth middleware.Authenticator) {
	pickup := r.Group("/pickup")
	pickup.Use(middleware.AuthRequired(auth))

	user := middleware.UserRequired()
	driver := middleware.DriverRequired()
	{
		pickup.POST("/request", user, h.Create)
		pickup.GET("/my-requests", user, h.MyRequests)
		pickup.PATCH("/my-requests/:id/cancel", user, h.UserCancel)

		pickup.GET("/requests", driver, h.Pending)
		pickup.GET("/", driver, h.All)
		pickup.PATCH("/request/:id/accept", driver, h.Accept)
		pickup.PATCH("/request/:id/cancel", driver, h.DriverCancel)
		pickup.PATCH("/request/:id/complete", driver, h.Complete)
	}
}
