package main

import (
	"driver-route-service/internal/adapters/directions"
	"driver-route-service/internal/adapters/repositories"
	"driver-route-service/internal/adapters/snapshot"
	"driver-route-service/internal/api"
	"driver-route-service/internal/config"
	"driver-route-service/internal/platform/db"
	"driver-route-service/internal/services"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google Directions) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	redisAddr := config.Get("REDIS_ADDR", "localhost:6379")
	snapshotTTL := getDuration("SNAPSHOT_TTL", 24*time.Hour)
	directionsTimeout := getDuration("DIRECTIONS_TIMEOUT", 5*time.Second)
	maxWaypoints := getInt("DIRECTIONS_MAX_WAYPOINTS", 23)

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	provider, err := directions.NewGoogleDirectionsProvider(apiKey, directionsTimeout, maxWaypoints)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	snapshots := snapshot.NewRedisRouteSnapshot(redisClient, snapshotTTL)

	planner := &services.Planner{
		Repo:      repositories.NewSQLStopRepository(database),
		Provider:  provider,
		Store:     repositories.NewSQLRouteStore(database),
		Snapshots: snapshots,
	}

	router := api.NewRouter(planner, planner.Repo, snapshots)

	// Write timeout leaves headroom for a directions call plus one retry.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}
