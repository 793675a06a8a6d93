package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/auth"
	"carpool/internal/config"
	"carpool/internal/events"
	"carpool/internal/geo"
	api "carpool/internal/http"
	"carpool/internal/http/handlers"
	"carpool/internal/logging"
	"carpool/internal/repositories"
	"carpool/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatalf("database unavailable: %v", err)
	}
	defer db.Close()

	userRepo := repositories.UserRepository{DB: db}
	profileRepo := repositories.ProfileRepository{DB: db}
	tripRepo := repositories.TripRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}

	var sessionCache *auth.SessionCache
	if cfg.RedisAddr != "" {
		sessionCache = auth.NewSessionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionCacheTTL)
		defer sessionCache.Close()
	}

	sessions := auth.Service{
		Users:    userRepo,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
		Cache:    sessionCache,
		Logger:   logger,
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer publisher.Close()
	}

	geoClient := geo.NewClient(cfg, logger)

	bookingSvc := services.BookingService{
		Profiles: profileRepo,
		Trips:    tripRepo,
		Bookings: bookingRepo,
		Events:   publisher,
		Logger:   logger,
	}
	tripSvc := services.TripService{Trips: tripRepo, Geo: geoClient, Logger: logger}
	profileSvc := services.ProfileService{Profiles: profileRepo}
	healthSvc := services.HealthService{DB: db, Geo: geoClient, Cache: sessionCache}

	r := api.NewRouter(api.Deps{
		Cfg:      cfg,
		Logger:   logger,
		Sessions: sessions,
		Auth: handlers.AuthHandler{
			Users:        userRepo,
			Profiles:     profileRepo,
			Sessions:     sessions,
			Logger:       logger,
			CookieMaxAge: int(cfg.TokenTTL.Seconds()),
		},
		Trips:    handlers.TripHandler{Trips: tripSvc, Bookings: bookingSvc, Logger: logger},
		Bookings: handlers.BookingHandler{Bookings: bookingSvc, Docs: services.DocsService{Bookings: bookingSvc}},
		Profile:  handlers.ProfileHandler{Profiles: profileSvc},
		Geo:      handlers.GeoHandler{Geo: geoClient},
		System:   handlers.SystemHandler{Health: healthSvc},
	})

	srv := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	logger.Info("server stopped")
}
