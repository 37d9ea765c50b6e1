package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/manto/manto-cli/internal/config"
)

// BlockPolicy controls how CreateMessage treats content blocks it does not
// recognize.
type BlockPolicy int

const (
	// BlockPolicyLenient keeps unknown blocks in the decoded content; text
	// extraction skips over them.
	BlockPolicyLenient BlockPolicy = iota
	// BlockPolicyStrict fails the call with ErrUnknownBlockKind when the
	// response contains a block kind this package does not model.
	BlockPolicyStrict
)

// Client performs single-shot calls against the Anthropic API. It holds no
// per-call state; one Client may serve many requests.
type Client struct {
	config      *config.Config
	credentials CredentialProvider
	httpClient  *http.Client
	logger      zerolog.Logger
	blockPolicy BlockPolicy
}

// ClientOption adjusts optional client behavior.
type ClientOption func(*Client)

func WithBlockPolicy(policy BlockPolicy) ClientOption {
	return func(c *Client) { c.blockPolicy = policy }
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func NewClient(cfg *config.Config, credentials CredentialProvider, opts ...ClientOption) *Client {
	c := &Client{
		config:      cfg,
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: cfg.Anthropic.Timeout.Duration,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateMessage sends one create-message request and returns the parsed
// response. Exactly one network attempt is made; there is no retry and no
// streaming. Cancellation is controlled by ctx.
func (c *Client) CreateMessage(ctx context.Context, request MessageRequest) (*MessageResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Anthropic.BaseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("model", string(request.Model)).
		Int("messages", len(request.Messages)).
		Int("max_tokens", int(request.MaxTokens)).
		Msg("sending create-message request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var messageResp MessageResponse
	if err := json.Unmarshal(body, &messageResp); err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !messageResp.Content.Resolved() {
		return nil, fmt.Errorf("%w: content field is missing", ErrMalformedResponse)
	}
	if c.blockPolicy == BlockPolicyStrict {
		if kind, found := messageResp.Content.unknownKind(); found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBlockKind, kind)
		}
	}

	c.logger.Debug().
		Str("stop_reason", messageResp.StopReason).
		Int("input_tokens", messageResp.Usage.InputTokens).
		Int("output_tokens", messageResp.Usage.OutputTokens).
		Msg("received create-message response")

	return &messageResp, nil
}

// ListModels fetches the models available to the credential.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Anthropic.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var list modelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return list.Data, nil
}

// ValidateAPIKeyFormat reports whether the key matches the configured prefix
// and minimum length. It makes no network call; the service remains the
// authority on whether a key is actually valid.
func (c *Client) ValidateAPIKeyFormat(apiKey string) bool {
	return len(apiKey) >= c.config.Anthropic.APIKeyMinLength &&
		strings.HasPrefix(apiKey, c.config.Anthropic.KeyPrefix)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.credentials.APIKey())
	req.Header.Set("anthropic-version", c.config.Anthropic.APIVersion)
	req.Header.Set("User-Agent", "manto-cli/1.0")
}

// statusError maps a non-200 status and its body to the error taxonomy,
// preferring the service's own error message when the body carries one.
func (c *Client) statusError(status int, body []byte) error {
	var apiErr *APIError
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		detail := envelope.Error
		apiErr = &detail
	}

	var kind error
	var fallback string
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind, fallback = ErrAuthenticationFailed, "invalid API key"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind, fallback = ErrValidationRejected, "invalid request format"
	case http.StatusTooManyRequests:
		fallback = "rate limit exceeded"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		fallback = "service temporarily unavailable"
	default:
		fallback = "request failed"
	}

	switch {
	case kind != nil && apiErr != nil:
		return fmt.Errorf("%w: %w", kind, apiErr)
	case kind != nil:
		return fmt.Errorf("%w: %s (status %d)", kind, fallback, status)
	case apiErr != nil:
		return fmt.Errorf("API error (status %d): %w", status, apiErr)
	default:
		return fmt.Errorf("%s (status %d)", fallback, status)
	}
}
