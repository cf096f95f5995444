package internal

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured
const DefaultModel = "gpt-4o-mini"

// Responder produces an assistant reply for a conversation history
type Responder interface {
	Reply(ctx context.Context, history []Message) (string, error)
}

// OpenAIResponder requests replies from an OpenAI-compatible chat endpoint
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

// NewOpenAIResponder creates a responder. An empty baseURL keeps the
// library default.
func NewOpenAIResponder(apiKey, baseURL, model string) *OpenAIResponder {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIResponder{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Reply sends the history and returns the first choice's text
func (r *OpenAIResponder) Reply(ctx context.Context, history []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: toChatMessages(history),
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// toChatMessages maps stored messages to chat-completion messages. Block
// content is sent as multi-part content with text and image_url parts.
func toChatMessages(history []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		blocks, ok := msg.Content.(Blocks)
		if !ok {
			out = append(out, openai.ChatCompletionMessage{
				Role:    string(msg.Role),
				Content: PlainText(msg.Content),
			})
			continue
		}

		parts := make([]openai.ChatMessagePart, 0, len(blocks))
		for _, b := range blocks {
			switch v := b.(type) {
			case TextBlock:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: v.Text,
				})
			case ImageBlock:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    v.URL,
						Detail: openai.ImageURLDetailAuto,
					},
				})
			}
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:         string(msg.Role),
			MultiContent: parts,
		})
	}
	return out
}
