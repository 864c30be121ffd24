package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"survey-service/internal/app"
	"survey-service/internal/config"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
	"survey-service/internal/infra/postgres"
	redisinfra "survey-service/internal/infra/redis"
	transport "survey-service/internal/transport/http"
)

// gateway is what both storage backends provide.
type gateway interface {
	app.MembershipStore
	app.SurveyStore
	app.ResponseStore
	app.AccountStore
	app.ProjectStore
	LoadQuestions(ctx context.Context, surveyID int64) ([]domain.Question, error)
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the survey API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func setupLogger(cfg config.Config) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel(cfg.Log.Level)})
	slog.SetDefault(slog.New(handler))
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogger(cfg)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		store   gateway
		results app.ResultStore
		checks  []func(context.Context) error
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		db := postgres.OpenDB(cfg.Postgres.URL)
		defer db.Close()
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		store = postgres.NewStore(db)
		results = postgres.NewResultReader(pool)
		checks = append(checks, db.PingContext, pool.Ping)
	} else {
		slog.Warn("postgres url not configured, using in-memory store")
		mem := memory.NewStore()
		store = mem
		results = mem
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var (
		questions app.QuestionRepository
		feeds     app.FeedRepository
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

		questions = redisinfra.NewQuestionRepository(redisClient, store, catalogTTL)
		feeds = redisinfra.NewFeedStore(redisClient, redisTTL)
		checks = append(checks, func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	} else {
		questions = memory.NewQuestionRepository(store, catalogTTL)
		feeds = memory.NewFeedStore()
	}

	aggregator := app.NewResultAggregator(questions, results, feeds, cfg.Aggregator.Concurrency)
	handler := transport.NewHandler(transport.Services{
		Accounts:    app.NewAccountService(store),
		Catalog:     app.NewCatalogService(store, store, questions),
		Assignments: app.NewAssignmentResolver(store, store, store),
		Recorder:    app.NewResponseRecorder(store, aggregator),
		Results:     aggregator,
		Ready:       readiness(checks),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting survey service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func readiness(checks []func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
