package providers

import (
	"time"

	"weftworks/weft/pkg/providers"
)

// TestConfig returns a test provider configuration.
func TestConfig(name, providerType string) providers.Config {
	return providers.Config{
		Name:       name,
		Type:       providerType,
		BaseURL:    "http://localhost:8080",
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}
}

// TestConfigWithURL returns a test config with a specific base URL.
func TestConfigWithURL(name, providerType, baseURL string) providers.Config {
	config := TestConfig(name, providerType)
	config.BaseURL = baseURL
	return config
}

// TestCompletionRequest creates a test completion request.
func TestCompletionRequest(model string, messages ...providers.Message) *providers.CompletionRequest {
	return &providers.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   100,
	}
}
