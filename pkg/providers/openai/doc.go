// Package openai implements the OpenAI provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for the Chat Completions API. It also covers OpenAI-compatible endpoints
// (Ollama, vLLM, LM Studio) when pointed at a custom base URL; the API key
// is optional for local servers that run without authentication.
//
// # Basic Usage
//
//	provider, err := openai.NewProvider(providers.Config{
//	    Name:   "openai",
//	    Type:   "openai",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model: "gpt-4o",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleUser, Content: "Hello!"},
//	    },
//	})
//
// # Local Endpoints
//
//	provider, err := openai.NewProvider(providers.Config{
//	    Name:    "ollama",
//	    Type:    "openai",
//	    BaseURL: "http://localhost:11434/v1",
//	})
//
// # Request Transformation
//
// Messages pass through mostly as-is; the Chat Completions format is the
// baseline for the provider-agnostic types. System messages stay in the
// messages array, and N is pinned to 1.
//
// # Response Transformation
//
// Responses are normalized to the provider-agnostic format:
//
//   - The first choice's content becomes the response content
//   - Token usage is extracted from the usage field
//   - Finish reason is normalized (stop, length, content_filter)
package openai
