package server

import (
	"context"

	"github.com/rs/zerolog/log"

	"MediBot/internal/aiservice"
	"MediBot/internal/assistant"
	"MediBot/internal/config"
	"MediBot/internal/triage"
)

// NewDeps builds the providers named by cfg. A provider without credentials
// is not an error: it is logged and left disabled, and the matching endpoint
// degrades to fallback replies for /chat and 503 for /scan-nutrition.
func NewDeps(ctx context.Context, cfg *config.Config) (Deps, error) {
	var deps Deps

	var completer assistant.Completer
	if cfg.Chat.Enabled() {
		chat, err := aiservice.NewChatClient(aiservice.ChatConfig{
			APIKey:  cfg.Chat.APIKey,
			BaseURL: cfg.Chat.BaseURL,
			Model:   cfg.Chat.Model,
			Timeout: cfg.ProviderTimeout,
		})
		if err != nil {
			return Deps{}, err
		}
		completer = chat
		deps.ChatEnabled = true
		log.Info().Str("model", cfg.Chat.Model).Msg("Chat provider enabled")
	} else {
		log.Warn().Msg("HF_TOKEN not set, chat replies will use fallback messages")
	}

	if cfg.Nutrition.Enabled() {
		extractor, err := newExtractor(ctx, cfg)
		if err != nil {
			return Deps{}, err
		}
		deps.Extractor = aiservice.NewCachingExtractor(extractor, cfg.ScanCacheSize, cfg.ScanCacheTTL)
		log.Info().Str("provider", cfg.Nutrition.Provider).Int("cache_size", cfg.ScanCacheSize).Msg("Nutrition provider enabled")
	} else {
		log.Warn().Str("provider", cfg.Nutrition.Provider).Msg("No key for the nutrition provider, scans will be refused")
	}

	classifier := triage.New(triage.ParseMatchMode(cfg.TriageMatchMode))
	deps.Assistant = assistant.New(classifier, completer, assistant.NewSelector(nil, nil))

	return deps, nil
}

func newExtractor(ctx context.Context, cfg *config.Config) (aiservice.Extractor, error) {
	if cfg.Nutrition.Provider == config.NutritionProviderGemini {
		return aiservice.NewGeminiExtractor(ctx, aiservice.GeminiConfig{
			APIKey:  cfg.Nutrition.GeminiAPIKey,
			Model:   cfg.Nutrition.GeminiModel,
			Timeout: cfg.ProviderTimeout,
		})
	}
	return aiservice.NewVisionExtractor(aiservice.VisionConfig{
		APIKey:  cfg.Nutrition.APIKey,
		BaseURL: cfg.Nutrition.BaseURL,
		Model:   cfg.Nutrition.Model,
		Timeout: cfg.ProviderTimeout,
	})
}
