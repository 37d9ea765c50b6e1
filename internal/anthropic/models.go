package anthropic

import "fmt"

// Model identifies an Anthropic model version.
type Model string

const (
	ModelClaude3Haiku   Model = "claude-3-haiku-20240307"
	ModelClaude3Sonnet  Model = "claude-3-sonnet-20240229"
	ModelClaude3Opus    Model = "claude-3-opus-20240229"
	ModelClaude35Sonnet Model = "claude-3-5-sonnet-20241022"
	ModelClaude35Haiku  Model = "claude-3-5-haiku-20241022"
)

// maxTokensCeilings maps each supported model to the largest max_tokens value
// the API accepts for it.
var maxTokensCeilings = map[Model]int{
	ModelClaude3Haiku:   4096,
	ModelClaude3Sonnet:  4096,
	ModelClaude3Opus:    4096,
	ModelClaude35Sonnet: 8192,
	ModelClaude35Haiku:  8192,
}

// MaxTokensCeiling returns the largest max_tokens value accepted for the
// model. ok is false for models outside the supported set.
func (m Model) MaxTokensCeiling() (int, bool) {
	ceiling, ok := maxTokensCeilings[m]
	return ceiling, ok
}

// MaxTokens bounds the length of generated output for one request.
type MaxTokens int

// NewMaxTokens validates the requested budget against the model's ceiling.
// It fails with ErrInvalidMaxTokens when the value is not positive, exceeds
// the ceiling, or the model has no known ceiling.
func NewMaxTokens(requested int, model Model) (MaxTokens, error) {
	ceiling, ok := model.MaxTokensCeiling()
	if !ok {
		return 0, fmt.Errorf("%w: no ceiling known for model %q", ErrInvalidMaxTokens, model)
	}
	if requested <= 0 {
		return 0, fmt.Errorf("%w: %d is not positive", ErrInvalidMaxTokens, requested)
	}
	if requested > ceiling {
		return 0, fmt.Errorf("%w: %d exceeds ceiling %d for model %q", ErrInvalidMaxTokens, requested, ceiling, model)
	}
	return MaxTokens(requested), nil
}

// Role identifies the author of a conversational message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversational turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// MessageRequest is the payload for a single create-message call. Required
// fields are set by NewMessageRequest; everything else is optional and left
// to provider defaults when absent. The client takes the request by value, so
// the send cannot observe later mutation by the caller.
type MessageRequest struct {
	Model         Model     `json:"model"`
	Messages      []Message `json:"messages"`
	MaxTokens     MaxTokens `json:"max_tokens"`
	System        string    `json:"system,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	TopP          *float64  `json:"top_p,omitempty"`
	TopK          *int      `json:"top_k,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

// NewMessageRequest builds a request from the required fields. It never
// fails on its own; invalid max_tokens values are caught upstream by
// NewMaxTokens and an empty message list by Validate.
func NewMessageRequest(model Model, maxTokens MaxTokens, messages ...Message) MessageRequest {
	return MessageRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
}

// Validate checks invariants the service would reject, before any network
// I/O is spent on the request.
func (r MessageRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: message list is empty", ErrValidationRejected)
	}
	return nil
}

// MessageResponse is the parsed result of a create-message call. It is owned
// by the caller once returned; the client keeps no reference to it.
type MessageResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Role         string    `json:"role"`
	Content      Content   `json:"content"`
	Model        Model     `json:"model"`
	StopReason   string    `json:"stop_reason"`
	StopSequence *string   `json:"stop_sequence,omitempty"`
	Usage        UsageInfo `json:"usage"`
}

type UsageInfo struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ModelInfo describes one entry from the models listing endpoint.
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

type modelList struct {
	Data []ModelInfo `json:"data"`
}
