package providers

import "context"

// Provider is the interface all LLM provider adapters implement. It gives
// the runner a unified abstraction over the supported APIs.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return promptly when
// the context is cancelled.
//
// Example usage:
//
//	req := &CompletionRequest{
//	    Model: "claude-sonnet-4-5",
//	    Messages: []Message{
//	        {Role: RoleUser, Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends a completion request to the provider and returns
	// the normalized response. Transient errors (5xx, network) are retried
	// with exponential backoff up to the configured retry count.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider's configured name (the weft.yaml map key).
	Name() string

	// Type returns the provider's type (anthropic, openai).
	Type() string

	// Close releases the provider's resources (idle HTTP connections).
	// After calling Close, the provider should not be used.
	Close() error
}
