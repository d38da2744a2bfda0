package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"route-session-service/internal/adapters/planner"
	"route-session-service/internal/polyline"
	"route-session-service/internal/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	app := &cli.App{
		Name:  "navctl",
		Usage: "Operator tooling for the route session service",
		Commands: []*cli.Command{
			decodeCommand(),
			watchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode an encoded polyline to coordinates",
		ArgsUsage: "<encoded>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "precision",
				Value: polyline.DefaultPrecision,
				Usage: "decimal precision of the encoder",
			},
		},
		Action: func(c *cli.Context) error {
			encoded := c.Args().First()
			if encoded == "" {
				return cli.Exit("an encoded polyline argument is required", 1)
			}

			coords := polyline.Decode(encoded, c.Int("precision"))
			for _, coord := range coords {
				fmt.Printf("%f,%f\n", coord.Lat, coord.Lon)
			}
			log.Info().Int("points", len(coords)).Msg("decoded polyline")
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Drive a live session against a backend and print route updates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "planning service base URL", Required: true},
			&cli.StringFlag{Name: "from", Usage: "source location", Required: true},
			&cli.StringFlag{Name: "to", Usage: "destination location", Required: true},
			&cli.StringFlag{Name: "mode", Value: "car", Usage: "travel mode"},
			&cli.BoolFlag{Name: "monitor", Value: true, Usage: "enable live monitoring"},
		},
		Action: runWatch,
	}
}

func runWatch(c *cli.Context) error {
	httpPlanner, err := planner.NewHTTPPlanner(c.String("backend"), log.Logger)
	if err != nil {
		return err
	}

	clk := clock.New()
	deltas := services.NewDeltaTracker(clk, services.DefaultDeltaWindow)
	session := services.NewSession(deltas, services.NewNotificationLifecycle(), log.Logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scheduler := services.NewScheduler(
		session, httpPlanner, clk, rng, services.DefaultSchedulerConfig(), log.Logger)
	defer scheduler.Stop()

	scheduler.EditEndpoints(c.String("from"), c.String("to"), c.String("mode"))
	scheduler.SetMonitoring(c.Bool("monitor"))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastGeometry string
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watch stopped")
			return nil
		case <-ticker.C:
			snap := session.Snapshot()
			if snap.Error != "" {
				log.Warn().Str("error", snap.Error).Msg("route request failed")
			}
			if snap.Current == nil {
				continue
			}
			if key := snap.Current.GeometryKey(); key != lastGeometry {
				lastGeometry = key
				log.Info().
					Str("route", snap.Current.RecommendedRoute).
					Float64("distance_km", snap.Current.DistanceKm).
					Float64("duration_min", snap.Current.DurationMinutes).
					Str("provider", snap.Current.Provider).
					Msg("route updated")
			}
			if snap.Notification != nil {
				log.Info().
					Str("event", snap.Notification.EventName).
					Str("severity", snap.Notification.Severity).
					Float64("distance_delta_km", snap.Notification.DistanceDeltaKm).
					Float64("duration_delta_min", snap.Notification.DurationDeltaMinutes).
					Msg("route updated due to disruption")
			}
		}
	}
}
