package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stanzixinwan/del-game/internal/api"
	"github.com/stanzixinwan/del-game/internal/api/handlers"
	"github.com/stanzixinwan/del-game/internal/buildconfig"
	"github.com/stanzixinwan/del-game/internal/config"
	"github.com/stanzixinwan/del-game/internal/engine"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "delgame",
		Short:   "Belief-driven social deduction simulation",
		Version: buildconfig.Version(),
	}

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a headless simulation to completion and print the result",
		RunE:  runSim,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation with the HTTP observer API",
		RunE:  runServe,
	}

	rootCmd.AddCommand(simCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(config.LogLevel())
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func runSim(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	world, err := engine.NewWorld(engine.Options{
		NumAgents:       config.NumAgents(),
		NumBad:          config.NumBad(),
		Seed:            config.Seed(),
		MeetingInterval: config.MeetingIntervalSeconds(),
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	tick := config.TickSeconds()
	maxTurns := config.MaxTurns()

	for i := 0; i < maxTurns; i++ {
		world.Advance(tick)
		if world.GameResult() != "" {
			break
		}
	}

	result := world.GameResult()
	if result == "" {
		logger.Warn("simulation hit turn limit without a result",
			zap.Int("max_turns", maxTurns))
		fmt.Println("result: none (turn limit reached)")
		return nil
	}

	logger.Info("simulation finished",
		zap.String("result", string(result)),
		zap.Int("turns", world.TurnCount()),
		zap.Float64("sim_time", world.ElapsedTime()))
	fmt.Printf("result: %s after %d turns (t=%.1f)\n",
		result, world.TurnCount(), world.ElapsedTime())
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	hub := handlers.NewLiveHub(logger)

	world, err := engine.NewWorld(engine.Options{
		NumAgents:       config.NumAgents(),
		NumBad:          config.NumBad(),
		Seed:            config.Seed(),
		MeetingInterval: config.MeetingIntervalSeconds(),
		Logger:          logger,
		EventSink:       hub.Sink,
	})
	if err != nil {
		return err
	}

	app := api.NewApp(world, hub, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Drive the simulation in real time; one tick per interval.
	tick := config.TickSeconds()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(tick * float64(time.Second)))
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				world.Advance(tick)
				if result := world.GameResult(); result != "" {
					logger.Info("game over",
						zap.String("result", string(result)),
						zap.Int("turns", world.TurnCount()))
					return
				}
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	close(done)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}
