package anthropic

import "errors"

// Sentinel errors for the failure modes of a create-message call. Wrap sites
// attach detail; callers match with errors.Is.
var (
	ErrInvalidMaxTokens     = errors.New("invalid max_tokens")
	ErrMissingCredential    = errors.New("missing API credential")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrValidationRejected   = errors.New("request rejected as invalid")
	ErrTransport            = errors.New("transport failure")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrUnknownBlockKind     = errors.New("unknown content block kind")
)

// APIError is the error detail the service returns inside its error envelope.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}

type errorResponse struct {
	Error APIError `json:"error"`
}
