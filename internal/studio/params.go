package studio

import (
	"fmt"
	"strings"
)

// Modes lists every creative operation.
var Modes = []Mode{ModeGenerate, ModeEdit, ModeEnhance, ModeCombine, ModeThumbnail, ModeVideo, ModeCartoon, ModeTemplate}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Params addresses a mode directly, for callers that do not drive the
// session's views: the Lambda event and the MCP tools.
type Params struct {
	Mode        Mode        `json:"mode"`
	Prompt      string      `json:"prompt,omitempty"`
	Title       string      `json:"title,omitempty"`
	CloneURL    string      `json:"cloneUrl,omitempty"`
	Template    string      `json:"template,omitempty"`
	AspectRatio AspectRatio `json:"aspectRatio,omitempty"`
	Duration    int         `json:"duration,omitempty"`
	Images      []ImageSlot `json:"images,omitempty"`
}

// Inputs maps the params onto the view and fields the mode reads. Missing
// content is left for Build to report with its usual message; only an
// unknown mode, ratio or template name fails here.
func (p Params) Inputs() (Inputs, error) {
	var in Inputs
	switch p.Mode {
	case ModeGenerate, ModeEdit, ModeEnhance, ModeCombine:
		in.View = ViewPhoto
		in.PhotoMode = photoModeFor[p.Mode]
		in.Prompt = p.Prompt
	case ModeThumbnail:
		in.View = ViewThumbnail
		in.Prompt = p.Prompt
		in.Title = p.Title
		in.CloneURL = p.CloneURL
	case ModeVideo:
		in.View = ViewVideo
		in.VideoPrompt = p.Prompt
	case ModeCartoon:
		in.View = ViewCartoon
		in.CartoonPrompt = p.Prompt
	case ModeTemplate:
		in.View = ViewTemplates
		in.Prompt = p.Prompt
		if p.Template != "" {
			t, ok := FindTemplate(p.Template)
			if !ok {
				return in, fmt.Errorf("unknown template %q", p.Template)
			}
			in.Template = &t
		}
	default:
		return in, fmt.Errorf("unknown mode %q", p.Mode)
	}

	if p.AspectRatio != "" {
		ratio, err := ParseAspectRatio(string(p.AspectRatio))
		if err != nil {
			return in, err
		}
		in.AspectRatio = ratio
	}
	in.Duration = p.Duration
	if len(p.Images) > 2 {
		return in, fmt.Errorf("at most two images are supported, got %d", len(p.Images))
	}
	if len(p.Images) > 0 {
		img := p.Images[0]
		in.Image1 = &img
	}
	if len(p.Images) > 1 {
		img := p.Images[1]
		in.Image2 = &img
	}
	return in, nil
}

var photoModeFor = map[Mode]PhotoMode{
	ModeGenerate: PhotoGenerate,
	ModeEdit:     PhotoEdit,
	ModeEnhance:  PhotoEnhance,
	ModeCombine:  PhotoCombine,
}
