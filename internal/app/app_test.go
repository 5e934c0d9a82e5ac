package app

import (
	"context"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/cubeql/internal/config"
	"github.com/OFFIS-RIT/cubeql/pkg/ai"
	"github.com/OFFIS-RIT/cubeql/pkg/cache"
	"github.com/OFFIS-RIT/cubeql/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	calls   int
	options []ai.GenerateOptions
}

func (s *scriptedClient) GenerateChat(_ context.Context, msgs []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	s.calls++
	s.options = append(s.options, ai.ApplyOptions(ai.GenerateOptions{}, opts...))
	for _, m := range msgs {
		if strings.Contains(m.Message, "SPARQL query generator") {
			return "PREFIX cube: <https://cube.link/>\nSELECT * WHERE { <http://example.org/cubeA> ?p ?o }", nil
		}
	}
	return "The best cube is <http://example.org/cubeA>", nil
}

func (s *scriptedClient) ResetMetrics()               {}
func (s *scriptedClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fixedCatalog struct{}

func (fixedCatalog) FetchCatalogDescriptions(context.Context) (string, error) {
	return `<http://example.org/cubeA> <http://schema.org/name> "Emissions"@en .`, nil
}

func (fixedCatalog) FetchCubeSample(context.Context, string) (string, error) {
	return "sample", nil
}

func (fixedCatalog) FetchDimensionLabels(context.Context, string) (string, error) {
	return "dimensions", nil
}

func TestBuild_WiresCachedPipeline(t *testing.T) {
	cfg := config.Config{
		CacheSize:       4,
		SelectionPrompt: "default",
		Profiles:        config.DefaultProfiles(),
	}
	client := &scriptedClient{}
	store, err := cache.New(cfg.CacheSize)
	require.NoError(t, err)

	a, err := build(cfg, logger.Nop{}, client, fixedCatalog{}, store)
	require.NoError(t, err)

	res, err := a.Pipeline.SelectAndGenerate(context.Background(), "CO2 emissions in 2010")
	require.NoError(t, err)
	assert.Equal(t, "<http://example.org/cubeA>", res.Cube)
	assert.True(t, strings.HasPrefix(res.Query, "PREFIX cube:"))
	assert.Equal(t, 2, client.calls)

	require.Len(t, client.options, 2)
	assert.Equal(t, 0.5, client.options[0].Temperature)
	assert.Equal(t, 0.1, client.options[1].TopP)

	_, err = a.Pipeline.SelectAndGenerate(context.Background(), "CO2 emissions in 2010")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls, "repeated question is served from cache")
	assert.Equal(t, 2, a.Cache.Len())
}

func TestBuild_UnknownSelectionPrompt(t *testing.T) {
	store, err := cache.New(1)
	require.NoError(t, err)
	_, err = build(config.Config{SelectionPrompt: "nope"}, nil, &scriptedClient{}, fixedCatalog{}, store)
	assert.Error(t, err)
}

func TestNewAIClient(t *testing.T) {
	_, err := NewAIClient(config.AIConfig{Adapter: "openai", ChatKey: "sk-test"})
	assert.NoError(t, err)

	_, err = NewAIClient(config.AIConfig{Adapter: "openai"})
	assert.Error(t, err, "openai needs a key")

	_, err = NewAIClient(config.AIConfig{Adapter: "ollama", ChatURL: "http://localhost:11434"})
	assert.Error(t, err, "ollama needs a model")

	_, err = NewAIClient(config.AIConfig{Adapter: "ollama", ChatURL: "http://localhost:11434", Model: "llama3.1", MaxConcurrentRequests: 2})
	assert.NoError(t, err)

	_, err = NewAIClient(config.AIConfig{Adapter: "bedrock"})
	assert.Error(t, err)
}
