// Package providers defines the LLM provider abstraction used by playbook
// execution.
//
// # Overview
//
// A Provider sends completion requests to an LLM API and returns normalized
// responses. Each adapter translates between the common CompletionRequest /
// CompletionResponse types and its provider's wire format, so the runner
// never deals with provider-specific JSON.
//
// # Architecture
//
// The package provides:
//
//   - Provider: the interface all adapters implement
//   - HTTPProvider: a base implementation with retry and error handling
//   - Typed errors: AuthError, RateLimitError, TimeoutError, and friends
//
// Concrete adapters live in subpackages:
//
//   - anthropic: Anthropic Messages API
//   - openai: OpenAI Chat Completions API, which also covers compatible
//     endpoints (Ollama, vLLM, LM Studio) via a custom base URL
//
// Adapters embed HTTPProvider and add request/response transforms on top.
// Construction goes through the providerfactory package, which maps
// configured provider types to adapters.
//
// # Basic Usage
//
//	provider, err := anthropic.NewProvider(providers.Config{
//		Name:   "anthropic",
//		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//		Model: "claude-sonnet-4-5",
//		Messages: []providers.Message{
//			{Role: providers.RoleUser, Content: "Summarize this diff."},
//		},
//	})
//
// # Error Handling
//
// The package defines specific error types for common failure scenarios:
//
//   - ProviderError: general provider errors with an HTTP status code
//   - AuthError: authentication failures (HTTP 401/403)
//   - RateLimitError: rate limit exceeded (HTTP 429), carries Retry-After
//   - TimeoutError: request timeout or context cancellation
//   - ParseError: response parsing failure
//   - ValidationError: invalid request before it leaves the process
//   - ConfigError: invalid provider configuration
//
// Authentication failures and bad requests never retry. Rate limits are
// returned to the caller with the server's Retry-After hint. Server errors
// (5xx) and network errors retry with exponential backoff inside DoRequest,
// up to the configured MaxRetries.
//
// ErrorType collapses any provider error into a small label set suitable
// for metrics:
//
//	if err != nil {
//		collector.RecordProviderError(provider.Name(), providers.ErrorType(err))
//	}
//
// # Thread Safety
//
// All provider implementations are safe for concurrent use from multiple
// goroutines; they share a pooled HTTP client per provider.
package providers
