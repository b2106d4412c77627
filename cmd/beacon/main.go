package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/auth"
	"github.com/beacondev/beacon/internal/handlers"
	"github.com/beacondev/beacon/internal/router"
	"github.com/beacondev/beacon/internal/services"
	"github.com/beacondev/beacon/internal/store"
	"github.com/beacondev/beacon/internal/uptime"
	"github.com/beacondev/beacon/internal/ws"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	notifier := services.NewNotificationService(db.DB, services.NewMailerFromEnv())
	handlers.Notifier = notifier

	interval := uptime.DefaultCheckInterval

	if raw := os.Getenv("CHECK_INTERVAL"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			interval = time.Duration(seconds) * time.Second
		} else {
			log.Printf("Invalid CHECK_INTERVAL %q, using default", raw)
		}
	}

	uptime.Initialize(store.NewGormStore(db.DB), notifier, ws.DefaultHub, interval)

	// Stop the monitor cleanly on SIGINT/SIGTERM; the HTTP server exits with
	// the process.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		uptime.Shutdown()
		os.Exit(0)
	}()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
