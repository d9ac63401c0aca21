// File: bookingcal/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookingcal/config"
	"bookingcal/handlers"
	"bookingcal/routes"
	"bookingcal/services/availability"
	"bookingcal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/juju/clock"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var redisClients []*redis.Client

	store := initStore(logger)
	locker, lockClient := initLocker(logger)
	if lockClient != nil {
		redisClients = append(redisClients, lockClient)
	}
	audit := initAudit(logger)
	if audit.queueClient != nil {
		redisClients = append(redisClients, audit.queueClient)
	}

	availabilityService := &availability.DefaultAvailabilityService{
		Repo:             store.repo,
		Locker:           locker,
		Audit:            audit.sink,
		Clock:            clock.WallClock,
		Logger:           logger.Named("availability"),
		MutationAttempts: config.AppConfig.MutationRetryAttempts,
		RetryDelay:       config.MutationRetryDelay(),
	}

	calendarHandler := handlers.NewCalendarHandler(availabilityService)
	handlerBundle := &handlers.HandlerBundle{
		Calendar:          calendarHandler,
		Bookings:          handlers.NewBookingsHandler(availabilityService, clock.WallClock),
		Admin:             handlers.NewAdminHandler(calendarHandler, audit.repo),
		AdminToken:        config.AppConfig.AdminToken,
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, 60*time.Second, config.AppConfig.StoreDriver, store.ping, redisClients)

	if audit.worker != nil {
		audit.worker.Start(audit.queueClient)
	}

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (store=%s, lock=%s, audit=%s)...", srv.Addr,
		config.AppConfig.StoreDriver, config.AppConfig.LockDriver, config.AppConfig.AuditDriver)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	audit.close()

	logger.Sugar().Info("main: server stopped gracefully")
}
