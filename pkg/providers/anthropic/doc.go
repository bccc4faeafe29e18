// Package anthropic implements the Anthropic provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Anthropic's Messages API (version 2023-06-01).
//
// # Basic Usage
//
//	provider, err := anthropic.NewProvider(providers.Config{
//	    Name:   "anthropic",
//	    Type:   "anthropic",
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model: "claude-sonnet-4-5",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleUser, Content: "Hello!"},
//	    },
//	})
//
// # Request Transformation
//
// The adapter transforms provider-agnostic requests to Anthropic's format:
//
//   - System messages are extracted and placed in the "system" field
//   - Messages must start with a user turn and alternate between user and
//     assistant (enforced by validation)
//   - MaxTokens is required by the API and defaults to 4096 if not provided
//
// # Response Transformation
//
// Responses are normalized to the provider-agnostic format:
//
//   - Text content blocks are concatenated into a single string
//   - Token usage is extracted (input_tokens + output_tokens)
//   - Stop reason is normalized (end_turn -> stop, max_tokens -> length)
//
// # Anthropic-Specific Requirements
//
// Differences from OpenAI-style APIs:
//
//  1. MaxTokens is required (cannot be 0)
//  2. System messages live outside the messages array
//  3. Messages must alternate between user and assistant
//  4. Uses the x-api-key header instead of Authorization: Bearer
//  5. Requires the anthropic-version header
package anthropic
