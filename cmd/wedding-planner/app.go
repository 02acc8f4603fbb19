package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"wedding-planner/internal/config"
	"wedding-planner/internal/form"
	"wedding-planner/internal/storage"
)

// app holds what every command needs: configuration, logging and the
// backend stores.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	guests    storage.GuestRepository
	submitter form.Submitter
	closers   []func() error
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a := &app{cfg: cfg, log: newLogger(cfg.LogLevel)}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
		a.closers = append(a.closers, func() error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	if cfg.DatabaseURL != "" {
		pg, err := storage.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg.SetCountryCode(cfg.CountryCode)
		a.guests = pg
		a.submitter = pg
		a.closers = append(a.closers, pg.Close)
		a.log.Info().Msg("Using postgres backend")
		return a, nil
	}

	guests, err := storage.NewStorage(cfg.GuestsFile())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	guests.SetCountryCode(cfg.CountryCode)
	a.guests = guests
	a.submitter = storage.NewSubmissionLog(cfg.SubmissionsFile())
	a.log.Info().Str("dir", cfg.DataDir).Msg("Using file backend")
	return a, nil
}

// progressStore opens the store for unfinished questionnaires.
func (a *app) progressStore(ctx context.Context) (form.Persister, error) {
	switch a.cfg.ProgressBackend {
	case config.BackendRedis:
		kv := a.redis(a.cfg.ProgressTTL)
		if err := kv.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return kv, nil
	case config.BackendMemory:
		return storage.NewMemoryKV(), nil
	default:
		return storage.NewFileKV(a.cfg.ProgressDir()), nil
	}
}

func (a *app) redis(ttl time.Duration) *storage.RedisKV {
	kv := storage.NewRedisKV(storage.RedisConfig{
		Address:  a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	}, ttl)
	a.closers = append(a.closers, kv.Close)
	return kv
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
}
