package providers

import (
	"context"
	"sync"

	"weftworks/weft/pkg/providers"
)

// MockProvider is a scriptable implementation of the Provider interface for
// testing. It records requests and returns a configured response or error.
type MockProvider struct {
	name     string
	provType string

	mu       sync.Mutex
	response *providers.CompletionResponse
	err      error
	requests []*providers.CompletionRequest
	closed   bool
}

// NewMockProvider creates a new mock provider with the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		name:     name,
		provType: "mock",
		response: &providers.CompletionResponse{
			ID:           "mock-1",
			Model:        "mock-model",
			Content:      "mock response",
			FinishReason: providers.FinishReasonStop,
			Usage: providers.Usage{
				PromptTokens:     10,
				CompletionTokens: 20,
				TotalTokens:      30,
			},
		},
	}
}

// SetResponse configures the response returned by SendCompletion.
func (m *MockProvider) SetResponse(resp *providers.CompletionResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = resp
	m.err = nil
}

// SetError configures SendCompletion to fail with err.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns the completion requests received so far.
func (m *MockProvider) Requests() []*providers.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*providers.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SendCompletion records the request and returns the configured response.
func (m *MockProvider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return m.name
}

// Type returns the provider type.
func (m *MockProvider) Type() string {
	return m.provType
}

// Close marks the provider closed.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
