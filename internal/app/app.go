package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linkword/linkword-backend/internal/adapter/postgres"
	categoryrepo "github.com/linkword/linkword-backend/internal/adapter/postgres/category"
	pairconfigrepo "github.com/linkword/linkword-backend/internal/adapter/postgres/pairconfig"
	wordrepo "github.com/linkword/linkword-backend/internal/adapter/postgres/word"
	wordlistrepo "github.com/linkword/linkword-backend/internal/adapter/postgres/wordlist"
	"github.com/linkword/linkword-backend/internal/config"
	"github.com/linkword/linkword-backend/internal/enricher"
	"github.com/linkword/linkword-backend/internal/llm"
	"github.com/linkword/linkword-backend/internal/service/catalog"
	"github.com/linkword/linkword-backend/internal/service/listgen"
	"github.com/linkword/linkword-backend/internal/service/words"
	"github.com/linkword/linkword-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// repositories, LLM client, services and HTTP surface, then serves until
// the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("default_provider", cfg.LLM.DefaultProvider),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	wordRepo := wordrepo.New(pool)
	categoryRepo := categoryrepo.New(pool)
	pairConfigRepo := pairconfigrepo.New(pool)
	listRepo := wordlistrepo.New(pool)

	llmClient := llm.NewClient(logger, buildProviders(cfg.LLM), cfg.LLM.DefaultProvider, llm.RetryPolicy{
		MaxAttempts: cfg.LLM.MaxAttempts,
		BaseDelay:   cfg.LLM.RetryBaseDelay,
		Multiplier:  cfg.LLM.RetryMultiplier,
	})

	pipeline := enricher.NewPipeline(logger, wordRepo, llmClient, enricher.Config{
		MaxChainsPerSense: cfg.Enrichment.MaxChainsPerSense,
		CoreTemperature:   cfg.Enrichment.CoreTemperature,
		SenseTemperature:  cfg.Enrichment.SenseTemperature,
		ChainTemperature:  cfg.Enrichment.ChainTemperature,
	})

	wordsService := words.NewService(logger, pipeline, wordRepo)
	catalogService := catalog.NewService(logger, categoryRepo, pairConfigRepo)
	listService := listgen.NewService(logger, listRepo, categoryRepo, llmClient,
		cfg.ListGen.InstructionsDir, cfg.ListGen.Temperature)

	router := rest.NewRouter(rest.RouterDeps{
		Log:     logger,
		Cfg:     cfg.CORS,
		DB:      pool,
		Version: BuildVersion(),
		Words:   wordsService,
		Catalog: catalogService,
		Lists:   listService,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// buildProviders creates one provider per configured credential.
func buildProviders(cfg config.LLMConfig) map[string]llm.Provider {
	providers := make(map[string]llm.Provider)
	if cfg.AnthropicAPIKey != "" {
		providers["anthropic"] = llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.DeepSeekAPIKey != "" {
		providers["deepseek"] = llm.NewOpenAIProvider(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel)
	}
	return providers
}
