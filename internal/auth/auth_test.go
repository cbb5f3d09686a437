package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/genai"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	const testKey = "test-api-key-12345"
	t.Setenv("GEMINI_API_KEY", testKey)

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, err := GetAPIKey()
	if !errors.Is(err, ErrNoKey) {
		t.Errorf("expected ErrNoKey, got %v", err)
	}
}

func TestGetCredentialPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := getCredentialPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := filepath.Join(home, ".ai-creative-studio", "credentials.gpg")
	if path != expected {
		t.Errorf("expected path %q, got %q", expected, path)
	}
}

func TestGetFromGPGFileNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := getFromGPG(); err == nil {
		t.Error("expected error when credentials file does not exist")
	}
}

func TestPassphrasePathPermissions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".ai-creative-studio")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	pp := filepath.Join(dir, ".gpg-passphrase")

	if err := os.WriteFile(pp, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := passphrasePath(); ok {
		t.Error("world-readable passphrase file must be skipped")
	}

	if err := os.Chmod(pp, 0o600); err != nil {
		t.Fatal(err)
	}
	got, ok := passphrasePath()
	if !ok || got != pp {
		t.Errorf("passphrasePath() = %q, %v; want %q", got, ok, pp)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"invalid key text", errors.New("API key not valid. Please pass a valid API key."), ErrTypeInvalidKey},
		{"entity not found", errors.New("Requested entity was not found."), ErrTypeInvalidKey},
		{"quota", errors.New("Resource exhausted"), ErrTypeQuotaExceeded},
		{"network", errors.New("dial tcp: no such host"), ErrTypeNetworkError},
		{"unknown", errors.New("something odd"), ErrTypeUnknown},
		{"api 403", genai.APIError{Code: 403, Message: "denied"}, ErrTypeInvalidKey},
		{"api 429", &genai.APIError{Code: 429, Message: "slow down"}, ErrTypeQuotaExceeded},
		{"api 503", genai.APIError{Code: 503, Message: "unavailable"}, ErrTypeNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			if got.Type != tt.want {
				t.Errorf("Type = %v, want %v", got.Type, tt.want)
			}
			if got.Err == nil {
				t.Error("expected the cause to be wrapped")
			}
		})
	}
}

func TestValidationErrorTypeString(t *testing.T) {
	if ErrTypeInvalidKey.String() != "invalid" || ErrTypeQuotaExceeded.String() != "quota" {
		t.Error("unexpected metric labels")
	}
}
