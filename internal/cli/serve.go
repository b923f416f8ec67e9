package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/lijamez/tonbot-plugin-trivia/internal/config"
	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
	"github.com/lijamez/tonbot-plugin-trivia/internal/infra/memory"
	pgloader "github.com/lijamez/tonbot-plugin-trivia/internal/infra/postgres"
	redispack "github.com/lijamez/tonbot-plugin-trivia/internal/infra/redis"
	sqlitepack "github.com/lijamez/tonbot-plugin-trivia/internal/infra/sqlite"
	transport "github.com/lijamez/tonbot-plugin-trivia/internal/transport/http"
	"github.com/lijamez/tonbot-plugin-trivia/internal/trivia"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trivia server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var loader memory.PackLoader = memory.NewStaticPackLoader(samplePacks())
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewPackLoader(pool)
	case cfg.SQLite.Path != "":
		store, err := sqlitepack.NewPackStore(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		loader = store
	}

	packTTL := config.TTLDuration(cfg.Pack.TTL, 10*time.Minute)
	var packs trivia.PackRepository
	if redisClient != nil {
		packs = redispack.NewPackRepository(redisClient, loader, packTTL)
	} else {
		packs = memory.NewPackRepository(loader, packTTL)
	}

	manager := trivia.NewManager(packs, trivia.Config{
		MaxQuestions:     cfg.Trivia.MaxQuestions,
		QuestionDuration: time.Duration(cfg.Trivia.QuestionSeconds) * time.Second,
		StartDelay:       time.Duration(cfg.Trivia.StartDelaySeconds) * time.Second,
	})
	wsHandler := transport.NewWSHandler(manager)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia server on :%s", finalPort)
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

// samplePacks provides a minimal demo bank; configure Postgres or SQLite for
// real pack storage.
func samplePacks() map[string]domain.Pack {
	return map[string]domain.Pack{
		"starter": {
			Metadata: domain.PackMetadata{Name: "starter", Description: "A tiny demo pack"},
			Questions: []domain.Question{
				{
					ID:            "q1",
					Kind:          domain.KindMultipleChoice,
					Text:          "What is 2 + 2?",
					Points:        1,
					Difficulty:    domain.DifficultyMedium,
					Choices:       []domain.Choice{{Text: "3"}, {Text: "4"}, {Text: "5"}},
					CorrectChoice: 1,
				},
				{
					ID:                "q2",
					Kind:              domain.KindShortAnswer,
					Text:              "What color is the sky on a clear day?",
					Points:            1,
					Difficulty:        domain.DifficultyMedium,
					AcceptableAnswers: []string{"blue", "azure"},
				},
			},
		},
	}
}
