// Command enrich runs the enrichment pipeline for one word from the
// command line, without going through the HTTP API.
//
//	enrich -headword makan -source id -target en
//	enrich -headword makan -source id -target en -force -provider deepseek
//
// Exit codes: 0 = word enriched and saved, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkword/linkword-backend/internal/adapter/postgres"
	wordrepo "github.com/linkword/linkword-backend/internal/adapter/postgres/word"
	"github.com/linkword/linkword-backend/internal/app"
	"github.com/linkword/linkword-backend/internal/config"
	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/enricher"
	"github.com/linkword/linkword-backend/internal/llm"
)

func main() {
	headword := flag.String("headword", "", "word to enrich (required)")
	source := flag.String("source", "", "source language code, e.g. id (required)")
	target := flag.String("target", "", "target language code, e.g. en (required)")
	categories := flag.String("categories", "", "comma-separated category slugs")
	provider := flag.String("provider", "", "LLM provider (default from config)")
	model := flag.String("model", "", "model override")
	force := flag.Bool("force", false, "regenerate content that already exists")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	if *headword == "" || *source == "" || *target == "" {
		fmt.Fprintln(os.Stderr, "usage: enrich -headword <word> -source <lang> -target <lang> [-force] [-provider p] [-model m]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	llmClient := llm.NewClient(logger, providers(cfg.LLM), cfg.LLM.DefaultProvider, llm.RetryPolicy{
		MaxAttempts: cfg.LLM.MaxAttempts,
		BaseDelay:   cfg.LLM.RetryBaseDelay,
		Multiplier:  cfg.LLM.RetryMultiplier,
	})

	pipeline := enricher.NewPipeline(logger, wordrepo.New(pool), llmClient, enricher.Config{
		MaxChainsPerSense: cfg.Enrichment.MaxChainsPerSense,
		CoreTemperature:   cfg.Enrichment.CoreTemperature,
		SenseTemperature:  cfg.Enrichment.SenseTemperature,
		ChainTemperature:  cfg.Enrichment.ChainTemperature,
	})

	word, err := pipeline.Run(ctx, enricher.Input{
		Headword:      *headword,
		SourceLang:    domain.Language(*source),
		TargetLang:    domain.Language(*target),
		Categories:    splitCategories(*categories),
		Provider:      *provider,
		Model:         *model,
		ForceReenrich: *force,
		Batch:         fmt.Sprintf("cli-enrich-%s", uuid.NewString()),
	})
	if err != nil {
		logger.Error("enrichment failed",
			slog.String("headword", *headword),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("word enriched",
		slog.String("word_id", word.WordID.String()),
		slog.String("headword", word.Headword),
		slog.Int("senses", len(word.Senses)))
}

func providers(cfg config.LLMConfig) map[string]llm.Provider {
	out := make(map[string]llm.Provider)
	if cfg.AnthropicAPIKey != "" {
		out["anthropic"] = llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.DeepSeekAPIKey != "" {
		out["deepseek"] = llm.NewOpenAIProvider(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel)
	}
	return out
}

func splitCategories(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
