package config

import (
	"fmt"
	"os"
	"time"

	"github.com/OFFIS-RIT/cubeql/internal/util"
	"github.com/OFFIS-RIT/cubeql/pkg/cache"
	"github.com/OFFIS-RIT/cubeql/pkg/chain"
	"github.com/OFFIS-RIT/cubeql/pkg/sparql"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port      string
	Debug     bool
	CacheSize int

	SPARQL SPARQLConfig
	AI     AIConfig

	SelectionPrompt string
	Profiles        Profiles
}

// SPARQLConfig configures the endpoint all canned queries go to.
type SPARQLConfig struct {
	Endpoint string
	Auth     string
	User     string
	Password string
	Creator  string
	Timeout  time.Duration
}

// AIConfig selects and configures the chat model backend.
type AIConfig struct {
	Adapter               string
	ChatURL               string
	ChatKey               string
	Model                 string
	MaxConcurrentRequests int64
}

// Profiles are the sampling settings of both chains.
type Profiles struct {
	Selection  chain.Profile `yaml:"selection"`
	Generation chain.Profile `yaml:"generation"`
}

// DefaultProfiles returns the built-in chain profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		Selection:  chain.DefaultSelectionProfile,
		Generation: chain.DefaultGenerationProfile,
	}
}

// Load builds a Config from the environment. CHAIN_PROFILES may name a YAML
// file overriding the chain profiles.
func Load() (Config, error) {
	cfg := Config{
		Port:      util.GetEnvString("PORT", "8080"),
		Debug:     util.GetEnvBool("DEBUG", false),
		CacheSize: util.GetEnvInt("CACHE_SIZE", cache.DefaultSize),

		SPARQL: SPARQLConfig{
			Endpoint: util.GetEnvString("SPARQL_ENDPOINT", sparql.DefaultEndpoint),
			Auth:     util.GetEnv("SPARQL_AUTH"),
			User:     util.GetEnv("SPARQL_USER"),
			Password: util.GetEnv("SPARQL_PASSWORD"),
			Creator:  util.GetEnvString("SPARQL_CATALOG_CREATOR", sparql.DefaultCreator),
			Timeout:  time.Duration(util.GetEnvInt("SPARQL_TIMEOUT_SECONDS", 60)) * time.Second,
		},

		AI: AIConfig{
			Adapter:               util.GetEnvString("AI_ADAPTER", "openai"),
			ChatURL:               util.GetEnv("AI_CHAT_URL"),
			ChatKey:               util.GetEnvString("AI_CHAT_KEY", util.GetEnv("OPENAI_API_KEY")),
			Model:                 util.GetEnv("AI_CHAT_MODEL"),
			MaxConcurrentRequests: int64(util.GetEnvInt("AI_PARALLEL_REQ", 15)),
		},

		SelectionPrompt: util.GetEnvString("SELECTION_PROMPT", chain.SelectionDefault),
		Profiles:        DefaultProfiles(),
	}

	if cfg.AI.Model != "" {
		cfg.Profiles.Selection.Model = cfg.AI.Model
		cfg.Profiles.Generation.Model = cfg.AI.Model
	}

	if path := util.GetEnv("CHAIN_PROFILES"); path != "" {
		profiles, err := LoadProfiles(path, cfg.Profiles)
		if err != nil {
			return Config{}, err
		}
		cfg.Profiles = profiles
	}

	if cfg.CacheSize <= 0 {
		return Config{}, fmt.Errorf("CACHE_SIZE must be positive, got %d", cfg.CacheSize)
	}

	return cfg, nil
}

// LoadProfiles reads a YAML profile file on top of base. Environment
// variables in the file are expanded.
//
//	selection:
//	  model: gpt-4o-mini
//	  temperature: 0.2
//	  top_p: 0.1
func LoadProfiles(path string, base Profiles) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profiles{}, fmt.Errorf("read chain profiles: %w", err)
	}

	profiles := base
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &profiles); err != nil {
		return Profiles{}, fmt.Errorf("parse chain profiles: %w", err)
	}

	return profiles, nil
}
