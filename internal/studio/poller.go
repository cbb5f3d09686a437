package studio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Phase is a poller state boundary reported to the progress sink.
type Phase string

const (
	PhaseSubmitted   Phase = "submitted"
	PhasePolling     Phase = "polling"
	PhaseCompleted   Phase = "completed"
	PhaseDownloading Phase = "downloading"
)

// Progress is one observational status update.
type Progress struct {
	Phase   Phase
	Message string
}

// ProgressFunc receives progress updates. It must not block for long.
type ProgressFunc func(Progress)

var phaseMessages = map[Phase]string{
	PhaseSubmitted:   "Sending request to AI...",
	PhasePolling:     "AI is directing your scene... (this may take a few minutes)",
	PhaseCompleted:   "Rendering final frames...",
	PhaseDownloading: "Downloading video...",
}

// Poll loop defaults.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultPollTimeout  = 15 * time.Minute
)

// msgNoLocator is returned when a job finishes without a download link.
const msgNoLocator = "Video generation failed: no download link provided."

// Poller drives a video job from submission to a downloaded result.
type Poller struct {
	// Interval is the wait between status refreshes.
	Interval time.Duration
	// Timeout bounds the whole run, submission included. Zero disables it.
	Timeout time.Duration
}

// NewPoller returns a poller with the default interval and timeout.
func NewPoller() *Poller {
	return &Poller{Interval: DefaultPollInterval, Timeout: DefaultPollTimeout}
}

// PollReport describes a finished run.
type PollReport struct {
	Operation string
	Polls     int
	Elapsed   time.Duration
}

// Run submits spec, refreshes the operation until it is done, and downloads
// the finished video. The sequence is strictly submit, wait, refresh, repeat.
// Cancelling ctx stops the loop at the next wait.
func (p *Poller) Run(ctx context.Context, vp VideoProvider, spec VideoSpec, progress ProgressFunc) (*Result, PollReport, error) {
	start := time.Now()
	report := PollReport{}
	emit := func(ph Phase) {
		if progress != nil {
			progress(Progress{Phase: ph, Message: phaseMessages[ph]})
		}
	}

	runCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	emit(PhaseSubmitted)
	op, err := vp.SubmitVideo(runCtx, spec)
	if err != nil {
		return nil, report, p.contextError(ctx, runCtx, err)
	}
	report.Operation = op.Name
	log.Info().
		Str("operation", op.Name).
		Str("aspect_ratio", string(spec.AspectRatio)).
		Bool("seed_image", spec.Image != nil).
		Msg("Video job submitted")

	emit(PhasePolling)
	for !op.Done {
		if err := p.wait(runCtx); err != nil {
			report.Elapsed = time.Since(start)
			return nil, report, p.contextError(ctx, runCtx, err)
		}
		op, err = vp.RefreshVideo(runCtx, op)
		if err != nil {
			report.Elapsed = time.Since(start)
			return nil, report, p.contextError(ctx, runCtx, err)
		}
		report.Polls++
		log.Debug().
			Str("operation", op.Name).
			Int("poll", report.Polls).
			Bool("done", op.Done).
			Msg("Video job polled")
	}
	report.Elapsed = time.Since(start)

	if op.Error != "" {
		return nil, report, newError(KindProvider, op.Error, nil)
	}
	if op.MediaURI == "" {
		return nil, report, newError(KindNoResult, msgNoLocator, nil)
	}

	emit(PhaseCompleted)
	emit(PhaseDownloading)
	media, err := vp.DownloadMedia(runCtx, op.MediaURI)
	if err != nil {
		return nil, report, p.contextError(ctx, runCtx, err)
	}
	report.Elapsed = time.Since(start)

	mimeType := media.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	log.Info().
		Str("operation", op.Name).
		Int("polls", report.Polls).
		Int("bytes", len(media.Data)).
		Dur("duration", report.Elapsed).
		Msg("Video downloaded")
	return &Result{Kind: ResultVideo, MIMEType: mimeType, Data: media.Data}, report, nil
}

// wait sleeps for one interval or until ctx ends.
func (p *Poller) wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// contextError distinguishes the caller cancelling from the poll timeout
// expiring. Provider errors pass through untouched so the classifier sees
// the original text.
func (p *Poller) contextError(parent, run context.Context, err error) error {
	if perr := parent.Err(); perr != nil {
		if errors.Is(perr, context.DeadlineExceeded) {
			return newError(KindTimeout, "video generation deadline exceeded", perr)
		}
		return newError(KindCanceled, "video generation canceled", perr)
	}
	if run.Err() != nil {
		return newError(KindTimeout, fmt.Sprintf("video generation timed out after %s", p.Timeout), run.Err())
	}
	return err
}
