package openai

import (
	"context"
	"fmt"
	"log/slog"

	"weftworks/weft/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for the Chat Completions
// API, which also covers OpenAI-compatible endpoints (Ollama, vLLM,
// LM Studio) when pointed at a custom base URL.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates a new OpenAI provider instance.
//
// The API key is optional: local OpenAI-compatible servers usually run
// without authentication, so an empty key just omits the Authorization
// header.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}

	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Debug("openai provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a completion request to the Chat Completions API.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	apiReq := transformRequest(req)

	url := fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if key := p.Config().APIKey; key != "" {
		headers["Authorization"] = "Bearer " + key
	}

	var apiResp chatResponse
	if err := p.DoJSONRequest(ctx, "POST", url, apiReq, &apiResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&apiResp)
	if err != nil {
		return nil, &providers.ParseError{
			Provider: p.Name(),
			Cause:    err,
		}
	}

	slog.Debug("completion request succeeded",
		"provider", p.Name(),
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// validateRequest checks the completion request before it leaves the process.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
