// Package llm wraps the hosted embedding and chat-completion services behind
// a single client with explicit timeouts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrEmbedding signals an embedding service failure.
	ErrEmbedding = errors.New("embedding service error")
	// ErrCompletion signals a completion service failure.
	ErrCompletion = errors.New("completion service error")
)

// Config holds the OpenAI client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	EmbedModel  string
	ChatModel   string
	Temperature float32
	Timeout     time.Duration
}

// Client talks to an OpenAI-compatible API for embeddings and completions.
type Client struct {
	api         *openai.Client
	embedModel  openai.EmbeddingModel
	chatModel   string
	temperature float32
}

// NewClient creates a client. A missing API key is an error: without the
// credential neither index building nor answering can work, so initialization
// must abort.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing OpenAI API key")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(clientCfg),
		embedModel:  openai.EmbeddingModel(cfg.EmbedModel),
		chatModel:   cfg.ChatModel,
		temperature: cfg.Temperature,
	}, nil
}

// Embed returns one embedding vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          texts,
		Model:          c.embedModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, wrapAPIError(ErrEmbedding, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrEmbedding, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}

// Complete runs a single chat completion for the prompt. No retries: the
// caller surfaces the failure and the user resubmits.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", wrapAPIError(ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrCompletion)
	}

	return resp.Choices[0].Message.Content, nil
}

// wrapAPIError keeps the provider's message visible while tagging the failure
// with the sentinel the caller branches on.
func wrapAPIError(sentinel error, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %d %s", sentinel, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: %d %s", sentinel, reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	return fmt.Errorf("%w: %v", sentinel, err)
}
