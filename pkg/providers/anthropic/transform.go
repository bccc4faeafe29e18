package anthropic

import (
	"fmt"

	"weftworks/weft/pkg/providers"
)

// Anthropic Messages API wire types. These stay unexported; callers only
// ever see the provider-agnostic types from the providers package.

type messagesRequest struct {
	Model         string    `json:"model"`
	Messages      []message `json:"messages"`
	System        string    `json:"system,omitempty"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   float64   `json:"temperature,omitempty"`
	TopP          float64   `json:"top_p,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []contentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        usage          `json:"usage"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// transformRequest converts a provider-agnostic request to the Messages API
// format. The system message moves to the dedicated system field, and
// max_tokens gets a default because Anthropic requires it.
func transformRequest(req *providers.CompletionRequest) (*messagesRequest, error) {
	out := &messagesRequest{
		Model:         req.Model,
		Messages:      make([]message, 0, len(req.Messages)),
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		StopSequences: req.Stop,
	}

	if out.MaxTokens == 0 {
		out.MaxTokens = 4096
	}

	var system string
	for _, msg := range req.Messages {
		if msg.Role == providers.RoleSystem {
			system = msg.Content
		} else {
			out.Messages = append(out.Messages, message{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}
	out.System = system

	if err := validateMessageSequence(out.Messages); err != nil {
		return nil, err
	}

	return out, nil
}

// validateMessageSequence enforces Anthropic's requirement that messages
// start with a user turn and alternate between user and assistant.
func validateMessageSequence(messages []message) error {
	if len(messages) == 0 {
		return nil
	}

	if messages[0].Role != providers.RoleUser {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "first message must be from user (Anthropic requirement)",
		}
	}

	for i := 1; i < len(messages); i++ {
		if messages[i-1].Role == messages[i].Role {
			return &providers.ValidationError{
				Field:   "messages",
				Message: fmt.Sprintf("messages must alternate between user and assistant (Anthropic requirement), found consecutive %s messages at index %d", messages[i].Role, i),
			}
		}
	}

	return nil
}

// transformResponse converts a Messages API response to the provider-agnostic
// format, concatenating text content blocks.
func transformResponse(resp *messagesResponse) (*providers.CompletionResponse, error) {
	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
		Usage: providers.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// normalizeStopReason maps Anthropic stop reasons to the common finish
// reason vocabulary. Unknown reasons pass through unchanged.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	default:
		return reason
	}
}
