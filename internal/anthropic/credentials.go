package anthropic

import (
	"fmt"
	"os"
	"strings"
)

// APIKeyEnvVar is the environment variable consulted by NewEnvCredentials.
const APIKeyEnvVar = "ANTHROPIC_API_KEY"

// CredentialProvider supplies the API key stamped on outbound requests.
// Implementations must be safe to call repeatedly.
type CredentialProvider interface {
	APIKey() string
}

// StaticCredentials is a fixed API key, for tests and embedding callers.
type StaticCredentials string

func (s StaticCredentials) APIKey() string { return string(s) }

// EnvCredentials holds a key captured from the environment at construction.
type EnvCredentials struct {
	key string
}

// NewEnvCredentials reads APIKeyEnvVar. An absent or empty value is a
// construction-time ErrMissingCredential, not a deferred send-time failure.
func NewEnvCredentials() (EnvCredentials, error) {
	key := strings.TrimSpace(os.Getenv(APIKeyEnvVar))
	if key == "" {
		return EnvCredentials{}, fmt.Errorf("%w: %s is not set", ErrMissingCredential, APIKeyEnvVar)
	}
	return EnvCredentials{key: key}, nil
}

func (e EnvCredentials) APIKey() string { return e.key }
