package ollama

import (
	"context"

	"github.com/OFFIS-RIT/cubeql/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

// Ollama's default context window. Longer prompts get num_ctx raised so the
// catalog dump is not silently truncated.
const defaultContext = 4096

// GenerateChat sends the conversation to Ollama and returns the assistant text.
// At most MaxConcurrentRequests calls run against the server at once.
func (c *ChatOllamaClient) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:         c.model,
		SystemPrompts: []string{},
		Temperature:   0.2,
	}, opts...)

	msgs := make([]api.Message, 0, len(options.SystemPrompts)+len(messages))
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: ai.RoleSystem, Content: sp})
	}
	for _, message := range messages {
		msgs = append(msgs, api.Message{Role: message.Role, Content: message.Message})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.TopP > 0 {
		req.Options["top_p"] = options.TopP
	}
	if tokens := estimateTokens(msgs); tokens > defaultContext {
		req.Options["num_ctx"] = tokens
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", err
	}

	c.metrics.Add(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	return final.Message.Content, nil
}

// estimateTokens returns an upper estimate of the prompt size with some
// headroom for the answer. It returns 0 when no encoding is available.
func estimateTokens(msgs []api.Message) int {
	chars := 0
	for _, m := range msgs {
		chars += len(m.Content)
	}
	// A token never covers less than one byte.
	if chars+200 <= defaultContext {
		return chars + 200
	}

	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0
	}
	tokens := 200
	for _, m := range msgs {
		tokens += len(enc.Encode(m.Content, nil, nil))
	}
	return tokens
}
