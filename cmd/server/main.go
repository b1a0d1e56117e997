// DataProSim - data science learning platform server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dataprosimx/dataprosim/internal/ai"
	"github.com/dataprosimx/dataprosim/internal/api"
	"github.com/dataprosimx/dataprosim/internal/config"
	"github.com/dataprosimx/dataprosim/internal/identity"
	"github.com/dataprosimx/dataprosim/internal/metrics"
	"github.com/dataprosimx/dataprosim/internal/middleware"
	"github.com/dataprosimx/dataprosim/internal/store"
	"github.com/dataprosimx/dataprosim/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped successfully")
}

func openStore(cfg *config.Config) (store.Repository, error) {
	if cfg.Store.Driver == config.StoreSQLite {
		return store.NewSQLite(cfg.Store.DBPath)
	}
	return store.NewMemory(), nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "store", cfg.Store.Driver)

	repo, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		return err
	}
	if err := store.Seed(ctx, repo); err != nil {
		return err
	}

	m := metrics.NewManager()

	// Provider order is the fallback order.
	orchestrator := ai.NewOrchestrator(
		[]ai.Provider{
			ai.NewOpenAI(ai.OpenAIConfig{
				APIKey:  cfg.AI.OpenAIAPIKey,
				Model:   cfg.AI.OpenAIModel,
				BaseURL: cfg.AI.OpenAIBaseURL,
			}, logger),
			ai.NewGemini(ai.GeminiConfig{
				APIKey:   cfg.AI.GeminiAPIKey,
				Model:    cfg.AI.GeminiModel,
				Endpoint: cfg.AI.GeminiEndpoint,
			}, logger),
		},
		ai.WithProviderTimeout(cfg.AI.ProviderTimeout),
		ai.WithObserver(m),
		ai.WithLogger(logger),
	)
	if cfg.AI.OpenAIAPIKey == "" && cfg.AI.GeminiAPIKey == "" {
		slog.Warn("No AI provider keys configured, AI endpoints will serve fallback content")
	}

	conversationLogger, err := ai.NewConversationLogger(ai.ConversationLogConfig{
		Enabled:       cfg.ConversationLog.Enabled,
		Dir:           cfg.ConversationLog.Dir,
		GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
		GlobalPath:    cfg.ConversationLog.GlobalPath,
		QueueSize:     cfg.ConversationLog.QueueSize,
		MaxOpenFiles:  cfg.ConversationLog.MaxOpenFiles,
	}, logger)
	if err != nil {
		return err
	}
	limiter := ai.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	aiHandler := ai.NewHandler(orchestrator, limiter, conversationLogger)
	defer aiHandler.Close()

	base := api.NewHandler(repo)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(middleware.Origins(cfg.FrontendURL)))
	r.Use(identity.Middleware(store.DemoUserID))
	r.Use(m.Middleware)

	api.NewHealthHandler(repo, orchestrator.Providers()).RegisterHealth(r)
	api.NewUserHandler(base).RegisterRoutes(r)
	api.NewProjectHandler(base).RegisterRoutes(r)
	api.NewCommunityHandler(base).RegisterRoutes(r)
	api.NewActivityHandler(base).RegisterRoutes(r)
	aiHandler.RegisterRoutes(r)

	r.Handle("/metrics", m.Handler())
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Covers two provider timeouts plus handler work.
		WriteTimeout: 2*cfg.AI.ProviderTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
