package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campus-booking/internal/handler/api"
	"campus-booking/internal/handler/middleware"
	"campus-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Booking      *api.BookingHandler
	Facility     *api.FacilityHandler
	Availability *api.AvailabilityHandler
	Notification *api.NotificationHandler
	Admin        *api.AdminHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware, rateLimiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limit := rateLimiter.Limit()

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login, Mw: []gin.HandlerFunc{limit}},
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register, Mw: []gin.HandlerFunc{limit}},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		// The polling surface: anonymous callers see the public feed and
		// dashboard, authenticated callers their own bookings on top.
		availability := apiGroup.Group("/availability")
		availability.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(availability, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Availability.GetDashboard},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Availability.GetFacilityStatus},
				{Method: http.MethodGet, Path: "/:id/slots", Handler: h.Availability.GetDayGrid},
			})
		}

		facilities := apiGroup.Group("/facilities")
		{
			addRoutes(facilities, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Facility.ListFacilities},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Facility.GetFacility},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			feed := bookings.Group("")
			feed.Use(authMiddleware.OptionalAuth())
			addRoutes(feed, []route{
				{Method: http.MethodGet, Path: "/all", Handler: h.Booking.GetFeed},
			})

			owned := bookings.Group("")
			owned.Use(authMiddleware.RequireAuth())
			addRoutes(owned, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.CreateBooking, Mw: []gin.HandlerFunc{limit}},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.GetUserBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.GetBooking},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Booking.UpdateBooking, Mw: []gin.HandlerFunc{limit}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.CancelBooking, Mw: []gin.HandlerFunc{limit}},
				{Method: http.MethodPost, Path: "/:id/confirm-arrival", Handler: h.Booking.ConfirmArrival, Mw: []gin.HandlerFunc{limit}},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notification.ListAlerts},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notification.MarkAlertRead},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Admin.ListBookings},
				{Method: http.MethodPost, Path: "/bookings/:id/approve", Handler: h.Admin.ApproveBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/deny", Handler: h.Admin.DenyBooking},
				{Method: http.MethodPut, Path: "/bookings/:id/prep", Handler: h.Admin.SetPrepState},
				{Method: http.MethodPost, Path: "/facilities", Handler: h.Admin.CreateFacility},
				{Method: http.MethodPut, Path: "/facilities/:id", Handler: h.Admin.UpdateFacility},
				{Method: http.MethodPost, Path: "/facilities/:id/closures", Handler: h.Admin.AddClosure},
				{Method: http.MethodGet, Path: "/users", Handler: h.Admin.ListUsers},
				{Method: http.MethodPost, Path: "/users/:id/ban", Handler: h.Admin.BanUser},
				{Method: http.MethodPost, Path: "/users/:id/unban", Handler: h.Admin.UnbanUser},
				{Method: http.MethodPost, Path: "/alerts", Handler: h.Admin.CreateAlert},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
