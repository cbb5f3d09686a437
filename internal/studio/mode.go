// Package studio holds the creative-studio core: the session state, the
// request builders for each creative mode, the long-running video poller,
// the provider error classifier, and the orchestrator that ties them together.
//
// Nothing in this package talks to the network directly. Remote calls go
// through the Provider interface; internal/gemini supplies the genai-backed
// implementation.
package studio

import (
	"fmt"
	"strings"
)

// View is the top-level creative area the user is working in.
type View string

const (
	ViewPhoto     View = "Photo"
	ViewVideo     View = "Video"
	ViewCartoon   View = "Cartoon"
	ViewThumbnail View = "Thumbnail"
	ViewTemplates View = "Templates"
)

// Views lists every view in navigation order.
var Views = []View{ViewPhoto, ViewVideo, ViewCartoon, ViewThumbnail, ViewTemplates}

// ParseView resolves a view name case-insensitively.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// PhotoMode selects the operation inside the Photo view.
type PhotoMode string

const (
	PhotoGenerate PhotoMode = "Generate"
	PhotoEdit     PhotoMode = "Edit"
	PhotoEnhance  PhotoMode = "Enhance"
	PhotoCombine  PhotoMode = "Combine"
)

// PhotoModes lists the photo sub-modes in tab order.
var PhotoModes = []PhotoMode{PhotoGenerate, PhotoEdit, PhotoEnhance, PhotoCombine}

// ParsePhotoMode resolves a photo sub-mode name case-insensitively.
func ParsePhotoMode(s string) (PhotoMode, error) {
	for _, m := range PhotoModes {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown photo mode %q", s)
}

// Mode is the concrete creative operation a submission runs. It is derived
// from the active view and, for the Photo view, the photo sub-mode.
type Mode string

const (
	ModeGenerate  Mode = "generate"
	ModeEdit      Mode = "edit"
	ModeEnhance   Mode = "enhance"
	ModeCombine   Mode = "combine"
	ModeThumbnail Mode = "thumbnail"
	ModeVideo     Mode = "video"
	ModeCartoon   Mode = "cartoon"
	ModeTemplate  Mode = "template"
)

// IsVideo reports whether the mode produces a video through the poller.
func (m Mode) IsVideo() bool {
	return m == ModeVideo || m == ModeCartoon || m == ModeTemplate
}

// modeFor maps a view and photo sub-mode to the operation it runs.
func modeFor(v View, p PhotoMode) Mode {
	switch v {
	case ViewVideo:
		return ModeVideo
	case ViewCartoon:
		return ModeCartoon
	case ViewThumbnail:
		return ModeThumbnail
	case ViewTemplates:
		return ModeTemplate
	}
	switch p {
	case PhotoEdit:
		return ModeEdit
	case PhotoEnhance:
		return ModeEnhance
	case PhotoCombine:
		return ModeCombine
	default:
		return ModeGenerate
	}
}

// AspectRatio is one of the output shapes the provider accepts.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// AspectRatios lists the supported ratios.
var AspectRatios = []AspectRatio{AspectSquare, AspectLandscape, AspectPortrait}

// ParseAspectRatio validates a ratio string such as "16:9".
func ParseAspectRatio(s string) (AspectRatio, error) {
	for _, r := range AspectRatios {
		if string(r) == strings.TrimSpace(s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unsupported aspect ratio %q (want 1:1, 16:9 or 9:16)", s)
}

// DefaultAspectRatio is the ratio a view starts with: 16:9 for the video
// producing views and the thumbnail maker, 1:1 for photos.
func DefaultAspectRatio(v View) AspectRatio {
	switch v {
	case ViewVideo, ViewCartoon, ViewTemplates, ViewThumbnail:
		return AspectLandscape
	default:
		return AspectSquare
	}
}

// Video duration bounds in minutes.
const (
	MinDurationMinutes     = 1
	MaxDurationMinutes     = 20
	DefaultDurationMinutes = 1
)

// ClampDuration pins a duration to the slider range.
func ClampDuration(minutes int) int {
	if minutes < MinDurationMinutes {
		return MinDurationMinutes
	}
	if minutes > MaxDurationMinutes {
		return MaxDurationMinutes
	}
	return minutes
}
