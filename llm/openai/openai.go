// Package openai registers the OpenAI-compatible chat completions dialect
// ("openai") with the llm package. Groq, OpenAI and most hosted gateways
// speak it.
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/compapol/llm"
)

// DialectName is the name the dialect registers under.
const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm types to /chat/completions.
type Dialect struct{}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

func (Dialect) Name() string     { return DialectName }
func (Dialect) ChatPath() string { return "/chat/completions" }

// BuildRequest always sends temperature, so an explicit zero is not lost.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	msgs := req.AllMessages()
	if len(msgs) == 0 {
		return nil, fmt.Errorf("openai: at least one message is required")
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse takes the first choice; a response without choices yields
// empty content.
func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	out := &llm.CompletionResponse{Model: resp.Model, Usage: resp.Usage}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	return out, nil
}
