package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/media"
)

// ErrPickCanceled is returned when the user closes a native picker.
var ErrPickCanceled = errors.New("selection canceled")

// PromptLine asks for one line of input, returning def when the user enters
// nothing or input cannot be read.
func PromptLine(in io.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		if !errors.Is(err, io.EOF) {
			log.Warn().Err(err).Msg("Failed to read input, using default")
		}
		return def
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// imagePatterns lists the picker glob for every supported image extension.
func imagePatterns() []string {
	patterns := make([]string, 0, len(media.SupportedImageExtensions))
	for ext := range media.SupportedImageExtensions {
		patterns = append(patterns, "*"+ext)
	}
	sort.Strings(patterns)
	return patterns
}

// PickImage opens a native file dialog filtered to supported images.
func PickImage(title string) (string, error) {
	selected, err := zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilters{
			{Name: "Images", Patterns: imagePatterns(), CaseFold: true},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrPickCanceled
		}
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	log.Info().Str("path", selected).Msg("Image picked via native dialog")
	return selected, nil
}

// PickDirectory opens a native folder dialog.
func PickDirectory(title string) (string, error) {
	selected, err := zenity.SelectFile(
		zenity.Directory(),
		zenity.Title(title),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrPickCanceled
		}
		return "", fmt.Errorf("directory picker failed: %w", err)
	}
	return selected, nil
}
