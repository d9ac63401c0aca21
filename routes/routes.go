package routes

import (
	"net/http"
	"time"

	"bookingcal/handlers"
	"bookingcal/middleware"
	"bookingcal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCalendarRoutes registers the vendor calendar endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar/:serviceID")
	{
		api.Use(middleware.ActorMiddleware())
		api.GET("/months/:yearMonth", hb.Calendar.GetMonthHandler)
		api.POST("/months/:yearMonth/init", hb.Calendar.InitMonthHandler)

		api.GET("/dates/:date/availability", hb.Calendar.DateAvailabilityHandler)
		api.PUT("/dates/:date/block", hb.Calendar.BlockDateHandler)
		api.DELETE("/dates/:date/block", hb.Calendar.UnblockDateHandler)

		api.POST("/dates/:date/events", hb.Calendar.AddEventHandler)
		api.PATCH("/dates/:date/events/:eventID", hb.Calendar.UpdateEventHandler)
		api.DELETE("/dates/:date/events/:eventID", hb.Calendar.RemoveEventHandler)
	}
}

// RegisterBookingsRoutes registers the read-only reservation listings.
func RegisterBookingsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings/:serviceID")
	{
		api.GET("", hb.Bookings.ListReservationsHandler)
		api.GET("/upcoming", hb.Bookings.UpcomingHandler)
		api.GET("/years", hb.Bookings.YearsHandler)
		api.GET("/calendar.ics", hb.Bookings.CalendarICSHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin/calendar/:serviceID")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware(hb.AdminToken))
		adminGroup.DELETE("/dates/:date/events/:eventID", hb.Admin.RemoveEventHandler)
		adminGroup.GET("/audit", hb.Admin.ListAuditHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		healthy := status.CheckedAt.IsZero() || status.StoreOK
		for _, ok := range status.Redis {
			healthy = healthy && ok
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": status})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.ActorHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterCalendarRoutes(r, hb)
	RegisterBookingsRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
