// Package assets provides embedded static assets for the application.
//
// Prompt framings are stored as text files under prompts/ and embedded at
// compile time so copy changes do not touch Go code.
package assets

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

// EnhancePrompt is the fixed instruction used by the Enhance photo mode.
// The user's own prompt is ignored in that mode.
//
//go:embed prompts/enhance.txt
var EnhancePrompt string

//go:embed prompts/cartoon.txt
var cartoonTemplate string

//go:embed prompts/thumbnail.txt
var thumbnailTemplate string

// template.Must panics on malformed templates, catching errors at program
// startup rather than at call time.
var (
	cartoonPromptTmpl   = template.Must(template.New("cartoon").Parse(cartoonTemplate))
	thumbnailPromptTmpl = template.Must(template.New("thumbnail").Parse(thumbnailTemplate))
)

// RenderCartoonPrompt wraps a story in the animated-cartoon framing.
func RenderCartoonPrompt(story string) string {
	return renderTemplate(cartoonPromptTmpl, struct{ Story string }{story})
}

// RenderThumbnailPrompt wraps thumbnail instructions in the viral-thumbnail
// framing, restating the target aspect ratio.
func RenderThumbnailPrompt(aspectRatio, instructions string) string {
	return renderTemplate(thumbnailPromptTmpl, struct {
		AspectRatio  string
		Instructions string
	}{aspectRatio, instructions})
}

// renderTemplate executes a pre-parsed template. The templates only reference
// string fields, so execution errors are not expected; whatever was rendered
// is returned regardless.
func renderTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return strings.TrimSpace(buf.String())
}
