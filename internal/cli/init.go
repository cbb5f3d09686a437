// Package cli holds the terminal helpers shared by the studio binaries:
// client bootstrap, prompts, native pickers and output formatting.
package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/auth"
	"github.com/fpang/ai-creative-studio/internal/gemini"
)

// InitStudioClient resolves the API key, creates the provider client and,
// when validate is set, probes the key with a cheap request. Exits fatally
// on failure.
func InitStudioClient(ctx context.Context, models gemini.Models, validate bool) *gemini.Client {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		HandleValidationError(&auth.ValidationError{Type: auth.ErrTypeNoKey, Message: err.Error(), Err: err})
	}

	client, err := gemini.New(ctx, apiKey, models)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}
	log.Debug().Msg("Gemini client initialized")

	if validate {
		if err := auth.ValidateAPIKey(ctx, client.GenAI()); err != nil {
			HandleValidationError(err)
		}
		log.Info().Msg("API key validation complete - ready for operations")
	}
	return client
}
