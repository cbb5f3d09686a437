// Package auth resolves the Gemini API key used by every studio call.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".ai-creative-studio"
	credentialFile = "credentials.gpg"
	passphraseFile = ".gpg-passphrase"
)

// ErrNoKey is returned when no key source yields a key.
var ErrNoKey = errors.New("API key not found. Set GEMINI_API_KEY or store it in ~/" + credentialDir + "/" + credentialFile)

// GetAPIKey retrieves the Gemini API key from available sources.
// Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. GPG-encrypted file at ~/.ai-creative-studio/credentials.gpg
func GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	key, err := getFromGPG()
	if err == nil && key != "" {
		log.Debug().Msg("Using API key from GPG encrypted file")
		return key, nil
	}

	log.Debug().Err(err).Msg("No API key source available")
	return "", ErrNoKey
}

// SelectAPIKey asks the user for a key in a native password dialog. This is
// the credential-selection step the Video and Cartoon views require.
func SelectAPIKey() (string, error) {
	key, err := zenity.Entry("Paste a Gemini API key from a paid Google Cloud project.",
		zenity.Title("Select API Key"),
		zenity.HideText())
	if errors.Is(err, zenity.ErrCanceled) {
		return "", &ValidationError{Type: ErrTypeNoKey, Message: "API key selection canceled", Err: err}
	}
	if err != nil {
		return "", fmt.Errorf("API key dialog failed: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", &ValidationError{Type: ErrTypeNoKey, Message: "no API key entered"}
	}
	log.Info().Msg("API key selected")
	return key, nil
}

// getFromGPG decrypts the API key from the GPG-encrypted credentials file.
func getFromGPG() (string, error) {
	credPath, err := getCredentialPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(credPath); err != nil {
		return "", fmt.Errorf("GPG credentials file not found at %s", credPath)
	}

	log.Debug().Str("file", credPath).Msg("Decrypting GPG credentials")

	args := []string{"--decrypt", "--quiet"}
	if pp, ok := passphrasePath(); ok {
		args = append(args, "--pinentry-mode", "loopback", "--passphrase-file", pp)
	}
	args = append(args, credPath)

	output, err := exec.Command("gpg", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("GPG decryption failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("GPG decryption failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// getCredentialPath returns the full path to the credentials file.
func getCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, credentialDir, credentialFile), nil
}

// passphrasePath finds an owner-only passphrase file in the credential
// directory or the working directory, for non-interactive decryption.
func passphrasePath() (string, bool) {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, credentialDir, passphraseFile))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, passphraseFile))
	}

	for _, p := range candidates {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if fi.Mode().Perm()&0o077 != 0 {
			log.Warn().
				Str("passphrase_file", p).
				Str("permissions", fmt.Sprintf("%04o", fi.Mode().Perm())).
				Msg("Passphrase file has insecure permissions (should be 0600); skipping")
			continue
		}
		return p, true
	}
	return "", false
}
