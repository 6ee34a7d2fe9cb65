// Package goopenai implements the llm chat contract on top of
// github.com/sashabaranov/go-openai, pointed at any OpenAI-compatible base
// URL.
package goopenai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/compapol/llm"
)

// Config configures the SDK-backed client.
type Config struct {
	Name        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse].
type Client struct {
	name      string
	api       *openai.Client
	model     string
	temp      float64
	maxTokens int
}

// New builds a client. An empty BaseURL keeps the SDK default.
func New(cfg Config) *Client {
	sdkCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		sdkCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		sdkCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	name := cfg.Name
	if name == "" {
		name = "goopenai-llm"
	}
	return &Client{
		name:      name,
		api:       openai.NewClientWithConfig(sdkCfg),
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}
}

func (c *Client) Name() string                     { return c.name }
func (c *Client) IsAvailable(context.Context) bool { return c.api != nil }

// Execute sends one chat completion. SDK errors (*openai.APIError,
// *openai.RequestError) are wrapped, not replaced.
func (c *Client) Execute(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	temp := req.Temperature
	if temp == 0 {
		temp = c.temp
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	msgs := req.AllMessages()
	sdkMsgs := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		sdkMsgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	// The SDK omits a zero temperature, which the API reads as its default.
	sdkTemp := float32(temp)
	if sdkTemp == 0 {
		sdkTemp = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    sdkMsgs,
		Temperature: sdkTemp,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return llm.CompletionResponse{}, fmt.Errorf("goopenai: chat completion: %w", err)
	}

	out := llm.CompletionResponse{
		Model: resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	return out, nil
}
