package main

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"route-session-service/internal/adapters/cache"
	"route-session-service/internal/adapters/planner"
	"route-session-service/internal/api"
	"route-session-service/internal/config"
	"route-session-service/internal/ports"
	"route-session-service/internal/services"
)

// main is the application composition root.
// It wires the planner adapter (optionally cached), the route session and
// its scheduler, and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	setupLogging()

	backendURL := os.Getenv("NAV_BACKEND_URL")
	if strings.TrimSpace(backendURL) == "" {
		log.Fatal().Msg("NAV_BACKEND_URL is required")
	}

	port := config.Get("NAV_PORT", "8080")

	routePlanner, err := buildPlanner(backendURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build route planner")
	}

	clk := clock.New()
	deltas := services.NewDeltaTracker(clk, services.DefaultDeltaWindow)
	session := services.NewSession(deltas, services.NewNotificationLifecycle(), log.Logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scheduler := services.NewScheduler(
		session, routePlanner, clk, rng, services.DefaultSchedulerConfig(), log.Logger)
	defer scheduler.Stop()

	app := api.NewRouter(session, scheduler, log.Logger)

	log.Info().Str("addr", ":"+port).Msg("Server listening")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupLogging() {
	if os.Getenv("NAV_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("NAV_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}

// buildPlanner creates the HTTP planner and, when Redis is configured,
// wraps it in the short-lived suggestion cache.
func buildPlanner(backendURL string) (ports.RoutePlanner, error) {
	httpPlanner, err := planner.NewHTTPPlanner(backendURL, log.Logger)
	if err != nil {
		return nil, err
	}

	redisAddress := os.Getenv("NAV_REDIS_ADDRESS")
	if redisAddress == "" {
		return httpPlanner, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Password: os.Getenv("NAV_REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	suggestionCache := cache.NewRedisSuggestionCache(client, cache.DefaultTTL)
	log.Info().Str("addr", redisAddress).Msg("Suggestion cache enabled")
	return planner.NewCachedPlanner(httpPlanner, suggestionCache, log.Logger), nil
}
