package anthropic

import (
	"errors"
	"testing"
)

func TestEnvCredentialsConstruction(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		wantKey string
	}{
		{name: "key present", value: "sk-ant-from-env", wantKey: "sk-ant-from-env"},
		{name: "key with surrounding whitespace", value: "  sk-ant-padded  ", wantKey: "sk-ant-padded"},
		{name: "key absent", value: "", wantErr: true},
		{name: "key is only whitespace", value: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(APIKeyEnvVar, tt.value)

			creds, err := NewEnvCredentials()
			if tt.wantErr {
				if !errors.Is(err, ErrMissingCredential) {
					t.Errorf("got %v, want ErrMissingCredential", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEnvCredentials failed: %v", err)
			}
			if creds.APIKey() != tt.wantKey {
				t.Errorf("got key %q, want %q", creds.APIKey(), tt.wantKey)
			}
		})
	}
}

func TestStaticCredentials(t *testing.T) {
	if got := StaticCredentials("sk-ant-fixed").APIKey(); got != "sk-ant-fixed" {
		t.Errorf("got %q", got)
	}
}
