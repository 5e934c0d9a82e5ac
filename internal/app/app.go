package app

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/cubeql/internal/config"
	"github.com/OFFIS-RIT/cubeql/pkg/ai"
	oai "github.com/OFFIS-RIT/cubeql/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/cubeql/pkg/ai/openai"
	"github.com/OFFIS-RIT/cubeql/pkg/cache"
	"github.com/OFFIS-RIT/cubeql/pkg/chain"
	"github.com/OFFIS-RIT/cubeql/pkg/logger"
	"github.com/OFFIS-RIT/cubeql/pkg/pipeline"
	"github.com/OFFIS-RIT/cubeql/pkg/sparql"
)

// Runner is what the HTTP and CLI front ends drive.
type Runner interface {
	pipeline.Runner
	SelectAndGenerate(ctx context.Context, question string) (pipeline.Result, error)
}

// App holds the process-wide collaborators, created once at startup.
type App struct {
	Config   config.Config
	AI       ai.ChatClient
	Cache    *cache.LRU
	Pipeline Runner
	Logger   logger.LoggerInstance
}

// New wires the pipeline described by cfg.
func New(cfg config.Config, log logger.LoggerInstance) (*App, error) {
	aiClient, err := NewAIClient(cfg.AI)
	if err != nil {
		return nil, err
	}

	sparqlClient, err := sparql.NewClient(sparql.NewClientParams{
		Endpoint: cfg.SPARQL.Endpoint,
		Auth:     cfg.SPARQL.Auth,
		User:     cfg.SPARQL.User,
		Password: cfg.SPARQL.Password,
		Timeout:  cfg.SPARQL.Timeout,
	})
	if err != nil {
		return nil, err
	}

	store, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return build(cfg, log, aiClient, sparql.NewGateway(sparqlClient, cfg.SPARQL.Creator), store)
}

func build(
	cfg config.Config,
	log logger.LoggerInstance,
	aiClient ai.ChatClient,
	catalog pipeline.Catalog,
	store *cache.LRU,
) (*App, error) {
	if log == nil {
		log = logger.Nop{}
	}
	handler := chain.NewLogHandler(log)

	selection, err := chain.NewSelectionChain(aiClient, cfg.Profiles.Selection, cfg.SelectionPrompt, handler)
	if err != nil {
		return nil, err
	}
	generation := chain.NewGenerationChain(aiClient, cfg.Profiles.Generation, handler)

	p := pipeline.NewPipeline(pipeline.NewPipelineParams{
		Catalog:    catalog,
		Selection:  selection,
		Generation: generation,
		Logger:     log,
	})

	return &App{
		Config:   cfg,
		AI:       aiClient,
		Cache:    store,
		Pipeline: pipeline.NewCached(p, store),
		Logger:   log,
	}, nil
}

// NewAIClient creates the chat client for the configured adapter.
func NewAIClient(cfg config.AIConfig) (ai.ChatClient, error) {
	switch cfg.Adapter {
	case "ollama":
		if cfg.Model == "" {
			return nil, fmt.Errorf("AI_CHAT_MODEL must be set for the ollama adapter")
		}
		client, err := oai.NewChatOllamaClient(oai.NewChatOllamaClientParams{
			Model:                 cfg.Model,
			BaseURL:               cfg.ChatURL,
			ApiKey:                cfg.ChatKey,
			MaxConcurrentRequests: cfg.MaxConcurrentRequests,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "", "openai":
		if cfg.ChatKey == "" && cfg.ChatURL == "" {
			return nil, fmt.Errorf("AI_CHAT_KEY or OPENAI_API_KEY must be set for the openai adapter")
		}
		return gai.NewChatOpenAIClient(gai.NewChatOpenAIClientParams{
			Model:   cfg.Model,
			ChatURL: cfg.ChatURL,
			ChatKey: cfg.ChatKey,
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", cfg.Adapter)
	}
}
