package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

var extensionsByMIME = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// ExtensionFor returns the file extension for a MIME type, falling back to
// ".png" for images and ".mp4" for everything else.
func ExtensionFor(mimeType string, kind studio.ResultKind) string {
	if ext, ok := extensionsByMIME[mimeType]; ok {
		return ext
	}
	if kind == studio.ResultImage {
		return ".png"
	}
	return ".mp4"
}

// SaveResult writes a result to dir as <name><ext> and returns the path.
func SaveResult(dir, name string, res *studio.Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("no result to save")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, name+ExtensionFor(res.MIMEType, res.Kind))
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	log.Info().
		Str("path", path).
		Str("kind", string(res.Kind)).
		Int("bytes", len(res.Data)).
		Msg("Result saved")
	return path, nil
}
