package ollama

import (
	"net/http"
	"net/url"

	"github.com/OFFIS-RIT/cubeql/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// ChatOllamaClient implements the ai.ChatClient interface using Ollama as the backend.
type ChatOllamaClient struct {
	model string

	reqLock *semaphore.Weighted

	metrics ai.MetricsRecorder

	Client *api.Client
}

// NewChatOllamaClientParams contains configuration options for creating a new ChatOllamaClient.
type NewChatOllamaClientParams struct {
	Model string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewChatOllamaClient creates a new Ollama-based chat client.
// It connects to the Ollama server at the given BaseURL, or the one from
// OLLAMA_HOST if BaseURL is empty.
func NewChatOllamaClient(
	params NewChatOllamaClientParams,
) (*ChatOllamaClient, error) {
	var cli *api.Client

	if params.BaseURL != "" {
		u, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}

		httpClient := http.DefaultClient
		if params.ApiKey != "" {
			httpClient = &http.Client{
				Transport: &headerTransport{
					headers: map[string]string{
						"Authorization": "Bearer " + params.ApiKey,
					},
					rt: http.DefaultTransport,
				},
			}
		}
		cli = api.NewClient(u, httpClient)
	} else {
		var err error
		cli, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 1
	}

	return &ChatOllamaClient{
		model:   params.Model,
		reqLock: semaphore.NewWeighted(maxReq),
		Client:  cli,
	}, nil
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *ChatOllamaClient) ResetMetrics() {
	c.metrics.Reset()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (c *ChatOllamaClient) GetMetrics() ai.ModelMetrics {
	return c.metrics.Snapshot()
}
