package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coges-quiz-app/internal/app"
	"coges-quiz-app/internal/config"
	"coges-quiz-app/internal/domain"
	"coges-quiz-app/internal/infra/memory"
	pgstore "coges-quiz-app/internal/infra/postgres"
	redisstore "coges-quiz-app/internal/infra/redis"
	transport "coges-quiz-app/internal/transport/http"

	"github.com/gorilla/handlers"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var store app.Store
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pg := pgstore.NewStore(pool)
		pg.EnsureIndexes(ctx)
		store = pg
	} else {
		log.Printf("postgres not configured, using in-memory store with sample tests")
		mem := memory.NewStore()
		for _, test := range sampleTests() {
			mem.AddTest(test)
		}
		store = mem
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
		store = redisstore.NewCachedStore(store, client, cacheTTL)
	}

	feed := transport.NewResultFeed()
	router := transport.NewRouter(store, feed)
	dispatcher := transport.NewDispatcher(cfg.Server.Webroot, router)
	handler := handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, dispatcher))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz app on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleTests keeps the API usable without a database; real deployments seed
// Postgres via the seed command instead.
func sampleTests() []domain.Test {
	return []domain.Test{
		{
			ID:    "test-matematica",
			Title: "Test di Matematica Base",
			Questions: []domain.Question{
				{
					Text: "Quanto fa 5 + 3?",
					Answers: []domain.Answer{
						{Text: "6"}, {Text: "7"}, {Text: "8"}, {Text: "9"},
					},
					CorrectAnswerIndex: 2,
				},
				{
					Text: "Quanto fa 100 ÷ 5?",
					Answers: []domain.Answer{
						{Text: "15"}, {Text: "20"}, {Text: "25"},
					},
					CorrectAnswerIndex: 1,
				},
			},
		},
		{
			ID:    "test-geografia",
			Title: "Quiz di Geografia",
			Questions: []domain.Question{
				{
					Text: "Qual è la capitale d'Italia?",
					Answers: []domain.Answer{
						{Text: "Milano"}, {Text: "Roma"}, {Text: "Napoli"},
					},
					CorrectAnswerIndex: 1,
				},
			},
		},
	}
}
