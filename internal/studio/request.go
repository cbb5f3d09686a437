package studio

import "strings"

// Request is one fully validated creative operation, ready for the provider.
// Exactly one concrete type exists per Mode.
type Request interface {
	Mode() Mode
	// ProgressLabel is the status line shown while the request runs.
	ProgressLabel() string
	isRequest()
}

// GenerateRequest is text-to-image.
type GenerateRequest struct {
	Prompt      string
	AspectRatio AspectRatio
}

// EditRequest applies a prompt to a single image.
type EditRequest struct {
	Prompt string
	Image  InlineImage
}

// EnhanceRequest upscales and cleans up a single image with a fixed prompt.
type EnhanceRequest struct {
	Image InlineImage
}

// CombineRequest merges two images under a prompt.
type CombineRequest struct {
	Prompt string
	Images [2]InlineImage
}

// ThumbnailRequest composes a thumbnail around a subject image.
type ThumbnailRequest struct {
	Prompt string
	Image  InlineImage
}

// VideoSpec is what the video provider receives.
type VideoSpec struct {
	Prompt          string
	Image           *InlineImage
	AspectRatio     AspectRatio
	DurationMinutes int
}

// VideoRequest is a plain text or image to video job.
type VideoRequest struct{ Spec VideoSpec }

// CartoonRequest is a story rendered as an animated episode.
type CartoonRequest struct{ Spec VideoSpec }

// TemplateRequest is a video in one of the catalog styles.
type TemplateRequest struct {
	Template Template
	Spec     VideoSpec
}

func (GenerateRequest) Mode() Mode  { return ModeGenerate }
func (EditRequest) Mode() Mode      { return ModeEdit }
func (EnhanceRequest) Mode() Mode   { return ModeEnhance }
func (CombineRequest) Mode() Mode   { return ModeCombine }
func (ThumbnailRequest) Mode() Mode { return ModeThumbnail }
func (VideoRequest) Mode() Mode     { return ModeVideo }
func (CartoonRequest) Mode() Mode   { return ModeCartoon }
func (TemplateRequest) Mode() Mode  { return ModeTemplate }

func (GenerateRequest) ProgressLabel() string  { return "Generating your vision..." }
func (EditRequest) ProgressLabel() string      { return "Applying AI edits..." }
func (EnhanceRequest) ProgressLabel() string   { return "Enhancing to 4K resolution..." }
func (CombineRequest) ProgressLabel() string   { return "Combining images..." }
func (ThumbnailRequest) ProgressLabel() string { return "Creating your viral thumbnail..." }
func (VideoRequest) ProgressLabel() string     { return "Initializing video generation..." }
func (CartoonRequest) ProgressLabel() string   { return "Directing your cartoon episode..." }
func (r TemplateRequest) ProgressLabel() string {
	return "Creating your " + r.Template.Name + "..."
}

func (GenerateRequest) isRequest()  {}
func (EditRequest) isRequest()      {}
func (EnhanceRequest) isRequest()   {}
func (CombineRequest) isRequest()   {}
func (ThumbnailRequest) isRequest() {}
func (VideoRequest) isRequest()     {}
func (CartoonRequest) isRequest()   {}
func (TemplateRequest) isRequest()  {}

// Validation messages shown next to the submit control.
const (
	msgGeneratePrompt   = "Please enter a prompt to generate an image."
	msgEditInputs       = "Please upload an image and provide an editing prompt."
	msgEnhanceImage     = "Please upload an image to enhance."
	msgCombineInputs    = "Please upload two images and provide a prompt."
	msgThumbnailImage   = "Please upload an image for the thumbnail."
	msgThumbnailText    = "Please provide a title or instructions."
	msgVideoPrompt      = "Please enter a prompt to generate a video."
	msgCartoonPrompt    = "Please enter a story prompt to generate a cartoon."
	msgTemplateSelected = "Please select a template and enter a prompt."

	msgGenerateNoImage  = "Image generation failed, no images returned."
	msgEditNoImage      = "Image editing failed. No image data in response."
	msgCombineNoImage   = "Image combining failed. No image data in response."
	msgThumbnailNoImage = "Thumbnail generation failed. No image data in response."
)

// Build validates the inputs for the active view and assembles the request
// with its final prompt text. A missing requirement returns a validation
// *Error and no request.
func Build(in Inputs) (Request, error) {
	switch modeFor(in.View, in.PhotoMode) {
	case ModeGenerate:
		if in.Prompt == "" {
			return nil, ValidationError(msgGeneratePrompt)
		}
		return GenerateRequest{Prompt: GeneratePrompt(in.Prompt), AspectRatio: in.AspectRatio}, nil

	case ModeEdit:
		if in.Image1 == nil || in.Prompt == "" {
			return nil, ValidationError(msgEditInputs)
		}
		return EditRequest{Prompt: in.Prompt, Image: in.Image1.Inline()}, nil

	case ModeEnhance:
		if in.Image1 == nil {
			return nil, ValidationError(msgEnhanceImage)
		}
		return EnhanceRequest{Image: in.Image1.Inline()}, nil

	case ModeCombine:
		if in.Image1 == nil || in.Image2 == nil || in.Prompt == "" {
			return nil, ValidationError(msgCombineInputs)
		}
		return CombineRequest{
			Prompt: CombinePrompt(in.Prompt, in.AspectRatio),
			Images: [2]InlineImage{in.Image1.Inline(), in.Image2.Inline()},
		}, nil

	case ModeThumbnail:
		if in.Image1 == nil {
			return nil, ValidationError(msgThumbnailImage)
		}
		if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Prompt) == "" {
			return nil, ValidationError(msgThumbnailText)
		}
		return ThumbnailRequest{
			Prompt: ThumbnailPrompt(in.Prompt, in.Title, in.CloneURL, in.AspectRatio),
			Image:  in.Image1.Inline(),
		}, nil

	case ModeVideo:
		if in.VideoPrompt == "" {
			return nil, ValidationError(msgVideoPrompt)
		}
		spec := VideoSpec{
			Prompt:          VideoPrompt(in.VideoPrompt, in.Duration),
			AspectRatio:     in.AspectRatio,
			DurationMinutes: in.Duration,
		}
		if in.Image1 != nil {
			img := in.Image1.Inline()
			spec.Image = &img
		}
		return VideoRequest{Spec: spec}, nil

	case ModeCartoon:
		if in.CartoonPrompt == "" {
			return nil, ValidationError(msgCartoonPrompt)
		}
		return CartoonRequest{Spec: VideoSpec{
			Prompt:          VideoPrompt(CartoonPrompt(in.CartoonPrompt), in.Duration),
			AspectRatio:     in.AspectRatio,
			DurationMinutes: in.Duration,
		}}, nil

	case ModeTemplate:
		if in.Template == nil || in.Prompt == "" {
			return nil, ValidationError(msgTemplateSelected)
		}
		// Template videos are always landscape, whatever ratio the session holds.
		return TemplateRequest{
			Template: *in.Template,
			Spec: VideoSpec{
				Prompt:          VideoPrompt(TemplatePrompt(*in.Template, in.Prompt), in.Duration),
				AspectRatio:     AspectLandscape,
				DurationMinutes: in.Duration,
			},
		}, nil
	}
	return nil, ValidationError("Unsupported mode.")
}
