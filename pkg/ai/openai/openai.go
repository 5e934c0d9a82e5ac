package openai

import (
	"github.com/OFFIS-RIT/cubeql/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ChatOpenAIClient is an ai.ChatClient backed by the OpenAI chat completions
// API or any endpoint speaking the same protocol.
//
// A ChatOpenAIClient should be created using NewChatOpenAIClient.
type ChatOpenAIClient struct {
	model   string
	chatURL string

	metrics ai.MetricsRecorder

	ChatClient *openai.Client
}

// NewChatOpenAIClientParams defines the configuration parameters for creating
// a new ChatOpenAIClient.
//
// ChatURL and ChatKey configure the chat/completion API endpoint. An empty
// ChatURL targets api.openai.com.
type NewChatOpenAIClientParams struct {
	Model string

	ChatURL string
	ChatKey string
}

// NewChatOpenAIClient creates and returns a new ChatOpenAIClient configured
// with the provided parameters.
//
// Example:
//
//	client := openai.NewChatOpenAIClient(openai.NewChatOpenAIClientParams{
//		Model:   "gpt-4o-mini",
//		ChatKey: os.Getenv("OPENAI_API_KEY"),
//	})
func NewChatOpenAIClient(params NewChatOpenAIClientParams) *ChatOpenAIClient {
	model := params.Model
	if model == "" {
		model = DefaultModel
	}

	return &ChatOpenAIClient{
		model:      model,
		chatURL:    params.ChatURL,
		ChatClient: newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	// Failures surface to the caller, the SDK must not retry on its own.
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *ChatOpenAIClient) ResetMetrics() {
	c.metrics.Reset()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (c *ChatOpenAIClient) GetMetrics() ai.ModelMetrics {
	return c.metrics.Snapshot()
}
