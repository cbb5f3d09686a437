package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/auth"
	"github.com/fpang/ai-creative-studio/internal/media"
)

// ResolveOutputDir creates dirPath if needed and returns its absolute path.
func ResolveOutputDir(dirPath string) (string, error) {
	if dirPath == "" {
		dirPath = "."
	}
	info, err := os.Stat(dirPath)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("access output directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("output path is not a directory: %s", dirPath)
	}

	if abs, err := filepath.Abs(dirPath); err == nil {
		dirPath = abs
	}
	return dirPath, nil
}

// ValidateImagePath checks that path is a regular file with a supported
// image extension.
func ValidateImagePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image not found: %s", path)
		}
		return fmt.Errorf("access image: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("image path is a directory: %s", path)
	}
	if _, err := media.MIMETypeFor(path); err != nil {
		return err
	}
	return nil
}

// HandleValidationError processes auth.ValidationError and exits with appropriate messaging.
func HandleValidationError(err error) {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Type {
		case auth.ErrTypeNoKey:
			log.Fatal().Msg("No API key configured. Set GEMINI_API_KEY, add it to .env, or store it in ~/.ai-creative-studio/credentials.gpg")
		case auth.ErrTypeInvalidKey:
			log.Fatal().Err(err).Msg("Invalid API key. Please check your API key and try again")
		case auth.ErrTypeNetworkError:
			log.Fatal().Err(err).Msg("Network error. Please check your internet connection")
		case auth.ErrTypeQuotaExceeded:
			log.Fatal().Err(err).Msg("API quota exceeded. Please try again later or check your usage limits")
		default:
			log.Fatal().Err(err).Msg("API key validation failed")
		}
	} else {
		log.Fatal().Err(err).Msg("unexpected error during API key validation")
	}
	os.Exit(1)
}
