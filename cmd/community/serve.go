package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"community/internal/adapters/discord"
	"community/internal/adapters/httpapi"
	"community/internal/application"
	"community/internal/config"
	"community/internal/infrastructure/database"
	"community/internal/infrastructure/i18n"
	"community/internal/infrastructure/llm"
	"community/internal/infrastructure/logging"
	"community/internal/infrastructure/sentiment"
	"community/internal/infrastructure/ticket"
	"community/internal/ports/output"
	"community/pkg/tz"
)

// loadConfig reads the configuration and applies the process-wide settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err := tz.SetDisplay(cfg.I18n.DisplayTimezone); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMigrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return database.RunMigrations(cfg.Database.URL)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
	}
	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	eventRepo := database.NewEventRepository(pool)
	registrationRepo := database.NewRegistrationRepository(pool)
	appraisalRepo := database.NewAppraisalRepository(pool)
	userRepo := database.NewUserRepository(pool)

	announcer, err := newAnnouncer(cfg.Discord)
	if err != nil {
		return err
	}
	model := llm.New(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		URL:     cfg.LLM.URL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})

	authz, err := httpapi.NewAuthorizer()
	if err != nil {
		return err
	}
	handler := httpapi.NewHandler(httpapi.Deps{
		Events:        application.NewEventService(eventRepo, registrationRepo, appraisalRepo, announcer),
		Registrations: application.NewRegistrationService(registrationRepo, ticket.NewQRRenderer(ticket.DefaultSize)),
		Appraisals:    application.NewAppraisalService(eventRepo, registrationRepo, appraisalRepo, sentiment.NewVader()),
		Accounts:      application.NewAccountService(userRepo, cfg.Auth.BcryptCost),
		Assistant:     application.NewAssistantService(eventRepo, userRepo, model),
		Sessions:      httpapi.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		Authorizer:    authz,
		Translator:    i18n.NewTranslator(cfg.I18n.DefaultLocale),
	})

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpapi.NewRouter(handler, httpapi.RouterConfig{
			CORSOrigins:        cfg.Server.CORSOrigins,
			RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func newAnnouncer(cfg config.DiscordConfig) (output.Announcer, error) {
	if cfg.Token == "" {
		return discord.Noop{}, nil
	}
	a, err := discord.NewAnnouncer(cfg.Token, cfg.ChannelID)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("channel_id", cfg.ChannelID).Msg("discord announcements enabled")
	return a, nil
}
