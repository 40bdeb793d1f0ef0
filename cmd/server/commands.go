package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/coderr/marketplace/docs"
	"github.com/coderr/marketplace/internal/api"
	"github.com/coderr/marketplace/internal/core/ports"
	"github.com/coderr/marketplace/internal/core/service"
	httpserver "github.com/coderr/marketplace/internal/infrastructure/http"
	"github.com/coderr/marketplace/internal/pkg/config"
	"github.com/coderr/marketplace/pkg/logger"
	"github.com/coderr/marketplace/pkg/observe"
)

const shutdownTimeout = 15 * time.Second

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "coderr",
		Short:        "Coderr marketplace API",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newCreateStaffCommand(),
	)
	return root
}

// bootstrap loads configuration, builds the logger and opens storage.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *storage, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "coderr",
	})

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("open storage: %w", err)
	}
	return cfg, log, store, nil
}

func newServices(cfg *config.Config, store *storage, log zerolog.Logger) api.Dependencies {
	return api.Dependencies{
		Auth:     service.NewAuthService(store.users, store.tokens, cfg.JWTSecret, cfg.TokenTTL, log.With().Str("component", "auth").Logger()),
		Profiles: service.NewProfileService(store.users, log.With().Str("component", "profiles").Logger()),
		Offers:   service.NewOfferService(store.offers, store.users, cfg.Offers.PageSize, cfg.Offers.MaxPageSize, log.With().Str("component", "offers").Logger()),
		Orders:   service.NewOrderService(store.orders, store.offers, store.users, log.With().Str("component", "orders").Logger()),
		Reviews:  service.NewReviewService(store.reviews, store.users, log.With().Str("component", "reviews").Logger()),
		Stats:    service.NewStatsService(store.reviews, store.users, store.offers),
		Log:      log,
	}
}

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, store, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer store.close(context.Background())

			flush, err := observe.InitSentry(observe.SentryOptions{
				DSN:         cfg.SentryDSN,
				Environment: cfg.Env,
				ServerName:  "coderr",
			})
			if err != nil {
				log.Warn().Err(err).Msg("sentry disabled")
			}
			defer flush()

			if migrate {
				if err := store.migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			e := httpserver.NewRouter(newServices(cfg, store, log), httpserver.Options{
				Log:          log,
				Dependencies: store.pingers,
				Metrics:      true,
				Swagger:      cfg.IsDevelopment(),
			})

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.Port).Str("driver", cfg.StorageDriver).Msg("http server listening")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create indexes or tables before serving")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database indexes or tables for the configured driver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, store, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer store.close(context.Background())

			if err := store.migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("migration complete")
			return nil
		},
	}
}

func newCreateStaffCommand() *cobra.Command {
	var in ports.CreateStaffInput

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff account or promote an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, store, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer store.close(context.Background())

			deps := newServices(cfg, store, log)
			user, err := deps.Auth.CreateStaff(cmd.Context(), in)
			if err != nil {
				return err
			}
			log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("staff account ready")
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "staff username")
	cmd.Flags().StringVar(&in.Email, "email", "", "staff email")
	cmd.Flags().StringVar(&in.Password, "password", "", "staff password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
