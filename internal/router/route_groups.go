package router

import (
	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/handlers"
)

// SetupPublicRoutes sets up the unauthenticated booking wizard routes.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, h *handlers.PublicBookingHandler) {
	publicRoutes := apiGroup.Group("/public")
	{
		publicRoutes.GET("/services", h.GetServices)
		publicRoutes.GET("/time-slots", h.GetTimeSlots)
		publicRoutes.POST("/bookings/progress", h.GetProgress)
		publicRoutes.POST("/bookings", h.SubmitBooking)
	}
}

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, requireSession gin.HandlerFunc) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(requireSession)
		{
			authRequiredRoutes.GET("/me", authHandler.Me)
			authRequiredRoutes.POST("/logout", authHandler.Logout)
		}
	}
}

// SetupBookingRoutes sets up the booking administration routes.
func SetupBookingRoutes(adminGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	bookingRoutes := adminGroup.Group("/bookings")
	{
		bookingRoutes.GET("", bookingHandler.GetBookings)
		bookingRoutes.GET("/:id", bookingHandler.GetBookingByID)
		bookingRoutes.PATCH("/:id/status", bookingHandler.UpdateBookingStatus)
		bookingRoutes.GET("/:id/history", bookingHandler.GetBookingHistory)
	}
}

// SetupServiceRoutes sets up the service catalog routes.
func SetupServiceRoutes(adminGroup *gin.RouterGroup, serviceHandler *handlers.ServiceHandler) {
	serviceRoutes := adminGroup.Group("/services")
	{
		serviceRoutes.GET("", serviceHandler.GetServices)
		serviceRoutes.POST("", serviceHandler.CreateService)
		serviceRoutes.PUT("/:id", serviceHandler.UpdateService)
		serviceRoutes.POST("/:id/delete-request", serviceHandler.RequestServiceDelete)
		serviceRoutes.DELETE("/:id", serviceHandler.DeleteService)
	}
}

func SetupCustomerRoutes(adminGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	adminGroup.GET("/customers", customerHandler.GetCustomers)
}

func SetupDashboardRoutes(adminGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	adminGroup.GET("/stats", dashboardHandler.GetStats)
}
