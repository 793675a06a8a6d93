package api

import (
	"log/slog"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carpool/internal/auth"
	"carpool/internal/config"
	"carpool/internal/http/handlers"
	"carpool/internal/http/middleware"
)

// Deps wires the constructed handlers and middleware dependencies into the
// router; everything is injected from main.
type Deps struct {
	Cfg      config.Config
	Logger   *slog.Logger
	Sessions auth.Service

	Auth     handlers.AuthHandler
	Trips    handlers.TripHandler
	Bookings handlers.BookingHandler
	Profile  handlers.ProfileHandler
	Geo      handlers.GeoHandler
	System   handlers.SystemHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     d.Cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		d.Logger.Warn("failed to set trusted proxies", "error", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Browser booking form: redirect contract, not JSON.
	r.POST("/trips/:id/book", middleware.RequireAuth(d.Sessions), d.Trips.Book)

	api := r.Group("/api")
	{
		api.GET("/health", d.System.HealthCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
		authGroup.POST("/logout", d.Auth.Logout)

		trips := api.Group("/trips")
		trips.GET("", d.Trips.List)
		trips.GET("/:id", middleware.OptionalAuth(d.Sessions), d.Trips.Detail)
		trips.POST("", middleware.RequireAuth(d.Sessions), d.Trips.Create)

		bookings := api.Group("/bookings", middleware.RequireAuth(d.Sessions))
		bookings.GET("", d.Bookings.List)
		bookings.GET("/:id", d.Bookings.Detail)
		bookings.GET("/:id/e-ticket", d.Bookings.ETicket)

		profile := api.Group("/profile", middleware.RequireAuth(d.Sessions))
		profile.GET("", d.Profile.Get)
		profile.PUT("", d.Profile.Update)

		api.POST("/geocode", d.Geo.Geocode)
		api.POST("/route", d.Geo.Route)
	}

	return r
}
