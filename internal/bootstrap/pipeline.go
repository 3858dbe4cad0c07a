package bootstrap

import (
	"context"
	"fmt"
	"log"

	"wtf2eat-be/internal/config"
	"wtf2eat-be/internal/metrics"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/repository/unitofwork"
	"wtf2eat-be/internal/service"
	"wtf2eat-be/pkg/ai/pipeline"
	"wtf2eat-be/pkg/ai/router"
	"wtf2eat-be/pkg/embedding"
	"wtf2eat-be/pkg/embedding/jina"
	"wtf2eat-be/pkg/llm/factory"
	"wtf2eat-be/pkg/places"
)

// Pipeline is the recommendation core and the services it is built from.
type Pipeline struct {
	Controller  *pipeline.Controller
	Preferences service.IPreferenceService
	Restaurants service.IRestaurantService
	Places      *places.Client
}

// NewEmbeddingProvider builds the configured provider behind a memo cache.
func NewEmbeddingProvider(cfg *config.Config) embedding.EmbeddingProvider {
	var p embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		p = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		p = jina.NewProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		p = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.GeminiModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.GeminiModel)
	}
	return embedding.NewCachedProvider(p, cfg.Ai.EmbeddingCacheTTL)
}

func NewPlacesClient(ctx context.Context, cfg *config.Config) (*places.Client, error) {
	opts := []places.Option{
		places.WithPageSize(cfg.Places.PageSize),
		places.WithRadius(cfg.Places.SearchRadius),
	}
	if cfg.Places.BaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	if cfg.Keys.GoogleMaps == "" {
		log.Printf("[INFO] GMAPS_API_KEY not set, using Application Default Credentials")
		return places.NewClientWithDefaultCredentials(ctx, opts...)
	}
	return places.NewClient(cfg.Keys.GoogleMaps, opts...), nil
}

// NewPipeline wires the router, query formulator, stores and Places client
// into a pipeline controller.
func NewPipeline(
	ctx context.Context,
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	publisher service.EventPublisher,
	sysLogger logger.ILogger,
) (*Pipeline, error) {
	embeddingProvider := NewEmbeddingProvider(cfg)

	baseURL := cfg.Ai.LLMBaseURL
	if baseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.New(factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.RouterModel,
		BaseURL:  baseURL,
		APIKey:   cfg.LLMKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (router %s, query %s)", cfg.Ai.LLMProvider, cfg.Ai.RouterModel, cfg.Ai.QueryModel)

	placesClient, err := NewPlacesClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init places client: %w", err)
	}

	preferenceService := service.NewPreferenceService(uowFactory, embeddingProvider, publisher, sysLogger)
	restaurantService := service.NewRestaurantService(placesClient, uowFactory, sysLogger)

	controller := pipeline.NewController(
		router.NewRouter(llmProvider, cfg.Ai.RouterModel, sysLogger),
		pipeline.NewLLMQueryFormulator(llmProvider, cfg.Ai.QueryModel),
		preferenceService,
		restaurantService,
		embeddingProvider,
		sysLogger,
		pipeline.WithObserver(metrics.PipelineObserver{}),
	)

	return &Pipeline{
		Controller:  controller,
		Preferences: preferenceService,
		Restaurants: restaurantService,
		Places:      placesClient,
	}, nil
}
