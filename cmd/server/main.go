package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/audit"
	"github.com/neurofleet/neurofleet-core/internal/auth"
	"github.com/neurofleet/neurofleet-core/internal/booking"
	"github.com/neurofleet/neurofleet-core/internal/broadcast"
	"github.com/neurofleet/neurofleet-core/internal/config"
	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/fleet"
	"github.com/neurofleet/neurofleet-core/internal/handlers"
	"github.com/neurofleet/neurofleet-core/internal/middleware"
	"github.com/neurofleet/neurofleet-core/internal/telemetry"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	collections := db.NewCollections(client.Database(cfg.MongoDB))
	log.Info("Connected to MongoDB")

	authService, err := auth.NewService()
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	recorder := audit.NewRecorder(collections.AuditLogs)
	fleetService := fleet.NewService(collections.Vehicles, collections.Assignments, recorder)
	bookingService := booking.NewService(collections.Bookings, collections.TripHistory, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	simulator := telemetry.NewSimulator(collections.Assignments, cfg.TelemetryInterval)
	go simulator.Run(ctx)

	if cfg.MQTTBroker != "" {
		publisher, err := broadcast.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, fleet broadcast disabled")
		} else {
			broadcaster := broadcast.NewBroadcaster(collections.Vehicles, publisher, cfg.BroadcastTopic, cfg.BroadcastInterval)
			go broadcaster.Run(ctx)
		}
	}

	router := handlers.NewRouter(handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService, collections.Users),
		Vehicles: handlers.NewVehicleHandler(collections.Vehicles),
		Fleet:    handlers.NewFleetHandler(fleetService),
		Bookings: handlers.NewBookingHandler(bookingService),
		Audit:    handlers.NewAuditHandler(recorder),
	}, middleware.NewAuthMiddleware(authService))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	log.Info("Server stopped")
}
