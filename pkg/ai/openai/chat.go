package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/cubeql/pkg/ai"

	"github.com/openai/openai-go/v3"
)

// GenerateChat sends a multi-turn chat conversation to the model and
// returns the assistant’s reply as plain text.
//
// System prompts from the options come first, followed by messages in the
// given order. System messages may appear anywhere in messages; their
// position is kept.
//
// Example:
//
//	msgs := []ai.ChatMessage{
//		{Role: ai.RoleSystem, Message: "Given following data cubes..."},
//		{Role: ai.RoleUser, Message: "For this question: ..."},
//	}
//	resp, err := client.GenerateChat(ctx, msgs, ai.WithTemperature(0.5), ai.WithTopP(0.5))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(resp)
func (c *ChatOpenAIClient) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.ChatClient == nil {
		return "", errors.New("openai chat client is not configured")
	}

	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:         c.model,
		SystemPrompts: []string{},
		Temperature:   0.2,
	}, opts...)

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    toParams(options.SystemPrompts, messages),
		Temperature: openai.Float(options.Temperature),
	}
	if options.TopP > 0 {
		body.TopP = openai.Float(options.TopP)
	}

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.metrics.Add(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}

	return response.Choices[0].Message.Content, nil
}

func toParams(systemPrompts []string, messages []ai.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(systemPrompts)+len(messages))
	for _, sp := range systemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	for _, message := range messages {
		switch message.Role {
		case ai.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(message.Message))
		case ai.RoleUser:
			msgs = append(msgs, openai.UserMessage(message.Message))
		case ai.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(message.Message))
		}
	}
	return msgs
}
