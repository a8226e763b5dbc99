package cli

import (
	"context"
	"fmt"
	"time"

	"daily-trivia-service/internal/app"
	"daily-trivia-service/internal/config"
	"daily-trivia-service/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd creates the admin account and a sample question on an empty database.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the admin user and a sample question if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			if cfg.Postgres.URL == "" {
				return errNoPostgres
			}
			if err := runMigrations(ctx, cfg, log); err != nil {
				return err
			}
			svc, err := buildServices(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer svc.close()
			return seed(ctx, cfg, svc, log)
		},
	}
}

func seed(ctx context.Context, cfg config.Config, svc *services, log *zap.Logger) error {
	if cfg.Env == "production" && cfg.Admin.Password == config.DefaultAdminPassword {
		log.Warn("ADMIN_PASSWORD not set, refusing to seed an admin with the default password")
	} else {
		created, err := svc.auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if created {
			log.Info("admin user created", zap.String("email", cfg.Admin.Email))
		}
	}

	page, err := svc.questions.List(ctx, 1, 1)
	if err != nil {
		return err
	}
	if page.Pagination.Total > 0 {
		return nil
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	q, err := svc.questions.Create(ctx, app.CreateQuestionRequest{
		Question:    "What is the capital of France?",
		Answer:      "Paris",
		Hint:        "It starts with the letter P",
		PublishDate: time.Now().In(loc).Format(time.DateOnly),
	})
	if err != nil {
		return fmt.Errorf("seed question: %w", err)
	}
	log.Info("sample question created", zap.String("id", q.ID))
	return nil
}
