package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily-trivia-service/internal/config"
	"daily-trivia-service/internal/logger"
	transport "daily-trivia-service/internal/transport/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			log.Error("migrations failed", zap.Error(err))
			return err
		}
	}

	svc, err := buildServices(ctx, cfg, log)
	if err != nil {
		log.Error("wire services", zap.Error(err))
		return err
	}
	defer svc.close()

	if err := seed(ctx, cfg, svc, log); err != nil {
		log.Error("seed failed", zap.Error(err))
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	handler := transport.NewHandler(svc.questions, svc.grading, svc.auth, svc.feed, log, transport.Options{
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.Auth.SecureCookie,
	})
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: it would cut off long-lived /submission/live connections.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting trivia service", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
