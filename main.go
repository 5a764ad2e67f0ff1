package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lab1702/solpilot/config"
	"github.com/lab1702/solpilot/pilot"
	"github.com/lab1702/solpilot/server"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing solpilot.yaml")
	port := flag.Int("port", 0, "Server port (overrides config)")
	scenarioPath := flag.String("scenario", "", "Scenario file (overrides config)")
	debug := flag.Bool("debug", false, "Trace pilot decisions and weapon events")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		// Logging is not set up yet
		log.Fatal().Err(err).Msg("loading config")
	}
	if *port != 0 {
		settings.Port = *port
	}
	if *scenarioPath != "" {
		settings.Scenario = *scenarioPath
	}

	logger := setupLogging(settings.Log, os.Stdout)
	log.Logger = logger
	pilot.SetLogger(logger)
	if *debug {
		pilot.Debug = true
		server.DebugWeapons = true
	}

	sim, err := server.NewSim(server.SimConfig{
		TimeStep:    1 / float64(settings.TickRate),
		FocusRadius: settings.Sim.FocusRadius,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating simulation")
	}

	scenario, err := config.LoadScenario(settings.Scenario)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading scenario")
	}
	if err := scenario.Apply(sim, settings.Sim.Seed); err != nil {
		logger.Fatal().Err(err).Str("scenario", scenario.Name).Msg("applying scenario")
	}

	telemetry, err := server.NewTelemetry(settings.Telemetry.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening telemetry")
	}
	defer telemetry.Close()
	sim.SetTelemetry(telemetry)

	logger.Info().
		Str("scenario", scenario.Name).
		Int("ships", sim.ShipCount()).
		Int("tickRate", settings.TickRate).
		Msg("simulation ready")

	// Create game server
	interval := time.Second / time.Duration(settings.TickRate)
	gameServer := server.NewServer(sim, interval, logger)
	go gameServer.Run()

	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", gameServer.HandleWebSocket)

	// Ship state endpoint
	mux.HandleFunc("/api/ships", gameServer.HandleShips)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start HTTP server
	addr := ":" + strconv.Itoa(settings.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().Msgf("Server running at http://localhost%s", addr)

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal from OS
	sig := <-sigChan
	logger.Info().Stringer("signal", sig).Msg("shutting down server")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Signal game server to stop background goroutines
	gameServer.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Int64("ticks", sim.Tick()).Msg("server exited")
}

// setupLogging builds the process logger and sets the global level.
func setupLogging(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	var level zerolog.Level
	switch strings.ToUpper(cfg.Level) {
	case "DEBUG":
		level = zerolog.DebugLevel
	case "INFO":
		level = zerolog.InfoLevel
	case "WARN":
		level = zerolog.WarnLevel
	case "ERROR":
		level = zerolog.ErrorLevel
	case "TRACE":
		level = zerolog.TraceLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
