// Package gemini implements the studio provider contract on top of the
// Google Gen AI SDK: Imagen for text-to-image, a Gemini image model for
// edits and compositions, and Veo for long-running video jobs.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

// videoResolution is the fixed output resolution for every video job.
const videoResolution = "720p"

// Client is a studio.Provider backed by the Gemini API.
// The API key can be swapped at runtime with SetAPIKey.
type Client struct {
	models     Models
	httpClient *http.Client

	mu     sync.RWMutex
	apiKey string
	genai  *genai.Client
}

var _ studio.Provider = (*Client)(nil)

// New creates a client for the given API key.
func New(ctx context.Context, apiKey string, models Models) (*Client, error) {
	c := &Client{
		models: models,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // finished videos can be tens of MB
		},
	}
	if err := c.SetAPIKey(ctx, apiKey); err != nil {
		return nil, err
	}
	return c, nil
}

// SetAPIKey replaces the credential used by every subsequent call.
func (c *Client) SetAPIKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return studio.CredentialError("API key is empty", nil)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.mu.Lock()
	c.apiKey = apiKey
	c.genai = gc
	c.mu.Unlock()

	log.Debug().
		Str("image_model", c.models.Image).
		Str("edit_model", c.models.Edit).
		Str("video_model", c.models.Video).
		Msg("Gemini client configured")
	return nil
}

// GenAI returns the underlying SDK client.
func (c *Client) GenAI() *genai.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.genai
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// GenerateImage renders a single PNG with Imagen.
func (c *Client) GenerateImage(ctx context.Context, prompt string, ratio studio.AspectRatio) (*studio.Media, error) {
	log.Debug().
		Str("model", c.models.Image).
		Str("prompt", truncateString(prompt, 100)).
		Str("aspect_ratio", string(ratio)).
		Msg("GenerateImage: starting Imagen call")
	start := time.Now()

	resp, err := c.GenAI().Models.GenerateImages(ctx, c.models.Image, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
		AspectRatio:    string(ratio),
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, studio.NoResultError("Image generation failed, no images returned.")
	}

	img := resp.GeneratedImages[0].Image
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	log.Debug().
		Int("output_bytes", len(img.ImageBytes)).
		Dur("duration", time.Since(start)).
		Msg("GenerateImage: Imagen call completed")
	return &studio.Media{Data: img.ImageBytes, MIMEType: mimeType}, nil
}

// EditImage sends the images followed by the instruction to the Gemini image
// model and returns the first inline image in the response.
func (c *Client) EditImage(ctx context.Context, prompt string, images []studio.InlineImage) (*studio.Media, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	for i, img := range images {
		raw, err := img.Bytes()
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		parts = append(parts, genai.NewPartFromBytes(raw, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	log.Debug().
		Str("model", c.models.Edit).
		Str("prompt", truncateString(prompt, 100)).
		Int("images", len(images)).
		Msg("EditImage: starting Gemini image call")
	start := time.Now()

	resp, err := c.GenAI().Models.GenerateContent(ctx, c.models.Edit,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
		})
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					log.Debug().
						Int("output_bytes", len(part.InlineData.Data)).
						Dur("duration", time.Since(start)).
						Msg("EditImage: Gemini image call completed")
					return &studio.Media{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
				}
			}
		}
	}
	return nil, studio.NoResultError(msgNoImageData)
}

// msgNoImageData is returned when an edit response carries no inline image.
// The orchestrator replaces it with the text for the submitted mode.
const msgNoImageData = "No image data in response."

// SubmitVideo starts a Veo job.
func (c *Client) SubmitVideo(ctx context.Context, spec studio.VideoSpec) (*studio.Operation, error) {
	var seed *genai.Image
	if spec.Image != nil {
		raw, err := spec.Image.Bytes()
		if err != nil {
			return nil, fmt.Errorf("seed image: %w", err)
		}
		seed = &genai.Image{ImageBytes: raw, MIMEType: spec.Image.MIMEType}
	}

	log.Debug().
		Str("model", c.models.Video).
		Str("prompt", truncateString(spec.Prompt, 100)).
		Str("aspect_ratio", string(spec.AspectRatio)).
		Msg("SubmitVideo: starting Veo job")

	op, err := c.GenAI().Models.GenerateVideos(ctx, c.models.Video, spec.Prompt, seed, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     videoResolution,
		AspectRatio:    string(spec.AspectRatio),
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}
	return toOperation(op), nil
}

// RefreshVideo fetches the current state of a Veo job.
func (c *Client) RefreshVideo(ctx context.Context, op *studio.Operation) (*studio.Operation, error) {
	fresh, err := c.GenAI().Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: op.Name}, nil)
	if err != nil {
		return nil, classifyAPIError(err)
	}
	return toOperation(fresh), nil
}

// toOperation flattens the SDK operation into the studio handle.
func toOperation(op *genai.GenerateVideosOperation) *studio.Operation {
	out := &studio.Operation{Name: op.Name, Done: op.Done}
	if msg, ok := op.Error["message"].(string); ok && msg != "" {
		out.Error = msg
	} else if len(op.Error) > 0 {
		out.Error = fmt.Sprintf("video operation failed: %v", op.Error)
	}
	if op.Response == nil {
		return out
	}
	for _, v := range op.Response.GeneratedVideos {
		if v != nil && v.Video != nil && v.Video.URI != "" {
			out.MediaURI = v.Video.URI
			return out
		}
	}
	if out.Error == "" && len(op.Response.RAIMediaFilteredReasons) > 0 {
		out.Error = "Video blocked by safety filters: " + strings.Join(op.Response.RAIMediaFilteredReasons, "; ")
	}
	return out
}

// classifyAPIError maps SDK authentication failures to credential errors.
// Everything else is returned unchanged so its text reaches the user.
func classifyAPIError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		log.Error().Int("code", code).Msg("Authentication failed - invalid API key")
		return studio.CredentialError(err.Error(), err)
	case 0:
		return err
	default:
		log.Warn().Int("code", code).Err(err).Msg("Gemini API error")
		return err
	}
}

// truncateString shortens s to at most n bytes for logging.
func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
