package cli

import (
	"context"
	"time"

	"daily-trivia-service/internal/app"
	"daily-trivia-service/internal/config"
	"daily-trivia-service/internal/infra/memory"
	"daily-trivia-service/internal/infra/postgres"
	redisstore "daily-trivia-service/internal/infra/redis"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// services is the wired application graph shared by start and seed.
type services struct {
	questions *app.QuestionService
	grading   *app.GradingService
	auth      *app.AuthService
	feed      *app.Feed
	close     func()
}

// buildServices picks Postgres and Redis backends when configured and falls
// back to in-memory stores otherwise.
func buildServices(ctx context.Context, cfg config.Config, log *zap.Logger) (*services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		questionRepo   app.QuestionRepository
		submissionRepo app.SubmissionRepository
		userRepo       app.UserRepository
	)
	if cfg.Postgres.URL != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, err
		}
		closers = append(closers, pool.Close)
		questionRepo = postgres.NewQuestionRepository(pool)
		submissionRepo = postgres.NewSubmissionRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		log.Info("using postgres storage")
	} else {
		store := memory.NewStore()
		questionRepo = store
		submissionRepo = store
		userRepo = memory.NewUserRepository()
		log.Warn("postgres not configured, using in-memory storage")
	}

	todayTTL := config.TTLDuration(cfg.Trivia.TodayTTL, time.Minute)
	var (
		today    app.TodayResolver
		sessions app.SessionRepository
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed, cache reads will fall back to storage", zap.Error(err))
		}
		today = redisstore.NewTodayCache(client, questionRepo, todayTTL)
		sessions = redisstore.NewSessionStore(client)
		log.Info("using redis cache and sessions", zap.String("addr", cfg.Redis.Addr))
	} else {
		today = memory.NewTodayCache(questionRepo, todayTTL)
		sessions = memory.NewSessionStore()
	}

	feed := app.NewFeed()
	sessionTTL := config.TTLDuration(cfg.Auth.SessionTTL, app.DefaultSessionTTL)
	return &services{
		questions: app.NewQuestionService(questionRepo, today, loc),
		grading: app.NewGradingService(questionRepo, submissionRepo, today, feed, loc).
			WithRecentLimit(cfg.Trivia.RecentLimit),
		auth:  app.NewAuthService(userRepo, sessions, sessionTTL),
		feed:  feed,
		close: closeAll,
	}, nil
}
