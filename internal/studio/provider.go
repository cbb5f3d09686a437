package studio

import "context"

// Media is a produced image or video payload.
type Media struct {
	Data     []byte
	MIMEType string
}

// Operation is the handle for an in-progress video job. Only the provider
// interprets Name; the poller looks at Done, MediaURI and Error.
type Operation struct {
	Name     string
	Done     bool
	MediaURI string
	// Error carries the provider's failure text when the job finished
	// unsuccessfully.
	Error string
}

// ImageProvider produces images synchronously.
type ImageProvider interface {
	// GenerateImage renders one image from a text prompt.
	GenerateImage(ctx context.Context, prompt string, ratio AspectRatio) (*Media, error)
	// EditImage applies a text instruction to one or more input images.
	EditImage(ctx context.Context, prompt string, images []InlineImage) (*Media, error)
}

// VideoProvider runs asynchronous video jobs.
type VideoProvider interface {
	SubmitVideo(ctx context.Context, spec VideoSpec) (*Operation, error)
	RefreshVideo(ctx context.Context, op *Operation) (*Operation, error)
	// DownloadMedia fetches a finished job's locator with the credential
	// attached.
	DownloadMedia(ctx context.Context, uri string) (*Media, error)
}

// Provider is the complete remote generative-AI contract.
type Provider interface {
	ImageProvider
	VideoProvider
}
