package anthropic

import (
	"context"
	"fmt"
	"log/slog"

	"weftworks/weft/pkg/providers"
)

// Provider is the Anthropic provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	*providers.HTTPProvider
}

// DefaultVersion is the anthropic-version header sent with every request.
const DefaultVersion = "2023-06-01"

// NewProvider creates a new Anthropic provider instance.
func NewProvider(config providers.Config) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "anthropic",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for Anthropic",
		}
	}

	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
	}

	slog.Debug("anthropic provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
	)

	return p, nil
}

// SendCompletion sends a completion request to Anthropic's Messages API.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	apiReq, err := transformRequest(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/messages", p.Config().BaseURL)
	headers := map[string]string{
		"x-api-key":         p.Config().APIKey,
		"anthropic-version": DefaultVersion,
		"Content-Type":      "application/json",
	}

	var apiResp messagesResponse
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
