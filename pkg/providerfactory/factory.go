package providerfactory

import (
	"fmt"
	"log/slog"

	"weftworks/weft/pkg/providers"
	"weftworks/weft/pkg/providers/anthropic"
	"weftworks/weft/pkg/providers/openai"
)

// New creates a new provider instance based on the configuration.
//
// Supported provider types:
//   - "anthropic": Anthropic Messages API
//   - "openai": OpenAI Chat Completions API and compatible endpoints
//     (Ollama, LM Studio, vLLM)
//
// The provider type is determined from the config.Type field. If not
// specified, it is inferred from the provider name: "anthropic" maps to
// the Anthropic adapter, everything else to the OpenAI adapter, since
// that API shape is the de facto standard for local servers.
//
// Example:
//
//	provider, err := providerfactory.New(providers.Config{
//	    Name:   "anthropic",
//	    Type:   "anthropic",
//	    APIKey: "sk-...",
//	})
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
func New(config providers.Config) (providers.Provider, error) {
	providerType := config.Type
	if providerType == "" {
		providerType = inferProviderType(config.Name)
		config.Type = providerType
	}

	slog.Debug("creating provider",
		"name", config.Name,
		"type", providerType,
		"base_url", config.BaseURL,
	)

	var provider providers.Provider
	var err error

	switch providerType {
	case "anthropic":
		provider, err = anthropic.NewProvider(config)

	case "openai":
		provider, err = openai.NewProvider(config)

	default:
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: anthropic, openai)", providerType),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", config.Name, err)
	}

	return provider, nil
}

// inferProviderType infers the provider type from the provider name.
func inferProviderType(name string) string {
	switch name {
	case "anthropic":
		return "anthropic"
	default:
		return "openai"
	}
}
