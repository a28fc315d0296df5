package routes

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/handlers"
	"pickupapp/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Users         *handlers.UserHandler
	Drivers       *handlers.DriverHandler
	Tours         *handlers.TourHandler
	Bookings      *handlers.BookingHandler
	Pickups       *handlers.PickupHandler
	Notifications *handlers.NotificationHandler
	Discounts     *handlers.DiscountHandler
	Health        *handlers.HealthHandler
}

// SetupRouter mounts every route group on engine under /api. The websocket
// endpoint lives at wsPath, which is absolute (default /api/ws).
func SetupRouter(engine *gin.Engine, h *Handlers, auth middleware.Authenticator, wsPath string) {
	engine.GET("/health", h.Health.Health)
	engine.NoRoute(handlers.NotFound)

	api := engine.Group("/api")
	SetupUserRoutes(api, h.Users, auth)
	SetupDriverRoutes(api, h.Drivers, auth)
	SetupTourRoutes(api, h.Tours, auth)
	SetupBookingRoutes(api, h.Bookings, auth)
	SetupPickupRoutes(api, h.Pickups, auth)
	SetupNotificationRoutes(api, h.Notifications, auth)
	SetupDiscountRoutes(api, h.Discounts)

	if wsPath == "" {
		wsPath = "/api/ws"
	}
	engine.GET(wsPath, middleware.AuthRequired(auth), h.Notifications.Stream)
}
