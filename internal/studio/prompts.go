package studio

import (
	"fmt"
	"strings"

	"github.com/fpang/ai-creative-studio/internal/assets"
)

// qualitySuffix is appended to every text-to-image prompt.
const qualitySuffix = "Style: realistic, 4k, ultra detail."

// GeneratePrompt appends the fixed quality suffix to a text-to-image prompt.
func GeneratePrompt(prompt string) string {
	return prompt + ". " + qualitySuffix
}

// EnhancePrompt returns the fixed enhancement instruction.
func EnhancePrompt() string {
	return strings.TrimSpace(assets.EnhancePrompt)
}

// CombinePrompt appends the aspect-ratio constraint to a combine prompt.
func CombinePrompt(prompt string, ratio AspectRatio) string {
	return fmt.Sprintf("%s. The final image must have a %s aspect ratio.", prompt, ratio)
}

// ThumbnailPrompt prepends the optional title and style-clone clauses to the
// user's instructions and wraps the whole in the viral-thumbnail framing.
// The clone clause ends up outermost when both are present.
func ThumbnailPrompt(instructions, title, cloneURL string, ratio AspectRatio) string {
	full := instructions
	if title != "" {
		full = fmt.Sprintf("Title to include: \"%s\". %s", title, full)
	}
	if cloneURL != "" {
		full = fmt.Sprintf("Clone the style from this thumbnail: %s. %s", cloneURL, full)
	}
	return assets.RenderThumbnailPrompt(string(ratio), full)
}

// CartoonPrompt wraps a story in the animated-cartoon framing.
func CartoonPrompt(story string) string {
	return assets.RenderCartoonPrompt(story)
}

// TemplatePrompt joins a template's style description with the user's topic.
func TemplatePrompt(t Template, prompt string) string {
	return fmt.Sprintf("%s. The video should be about: %s.", t.StylePrompt, prompt)
}

// DurationClause is the sentence placed ahead of every video prompt.
func DurationClause(minutes int) string {
	unit := "minute"
	if minutes > 1 {
		unit = "minutes"
	}
	return fmt.Sprintf("Generate a video, approximately %d %s long.", minutes, unit)
}

// VideoPrompt prefixes a video prompt with the duration clause.
func VideoPrompt(prompt string, minutes int) string {
	return DurationClause(minutes) + " " + prompt
}
