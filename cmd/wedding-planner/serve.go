package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-planner/internal/analytics"
	"wedding-planner/internal/form"
	"wedding-planner/internal/handler"
	"wedding-planner/internal/leadscore"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire and guest list API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default: $PORT or 8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	persister, err := a.progressStore(ctx)
	if err != nil {
		return err
	}

	emitter := analytics.NewEmitter(a.log, 0, analytics.NewLogSink(a.log))
	if cfg.AnalyticsChannel != "" {
		emitter.AddSink(analytics.NewRedisSink(a.redis(0).Client(), cfg.AnalyticsChannel))
	}

	steps := form.DefaultSteps()
	scorer := leadscore.New(cfg.ScoreWeights, form.ScoringSteps(steps))
	registry := handler.NewRegistry(func(id string) *form.Session {
		return form.NewSession(form.Options{
			ID:         id,
			StorageKey: cfg.StorageKey,
			Steps:      steps,
			Persister:  persister,
			Submitter:  a.submitter,
			Tracker:    emitter,
			Scorer:     scorer,
			Logger:     a.log,
		})
	})

	server := handler.NewAPI(handler.Options{
		Sessions: registry,
		Steps:    steps,
		Guests:   a.guests,
		Events:   emitter,
		Lang:     cfg.Lang,
		Logger:   a.log,
	}).App()

	go func() {
		<-ctx.Done()
		a.log.Info().Msg("Shutting down...")
		if err := server.Shutdown(); err != nil {
			a.log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	port := servePort
	if port == "" {
		port = cfg.Port
	}
	a.log.Info().Str("port", port).Str("progress", cfg.ProgressBackend).Msg("🚀 Server starting")
	if err := server.Listen(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
