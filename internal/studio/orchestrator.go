package studio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/jobs"
)

// ErrBusy is returned when a generation is already in flight.
var ErrBusy = errors.New("a generation is already in progress")

// msgSelectKey is the gate message for the Video and Cartoon views.
const msgSelectKey = "Please select an API key to continue."

// Outcome is the record of one submission.
type Outcome struct {
	ID       string
	Mode     Mode
	Prompt   string
	Result   *Result
	Error    *ErrorState
	Err      error
	Duration time.Duration
	Polls    int
}

// Kind returns the error kind, or "" on success.
func (o *Outcome) Kind() Kind {
	return KindOf(o.Err)
}

// Orchestrator runs at most one generation at a time and folds each outcome
// into the submitting session.
type Orchestrator struct {
	provider Provider
	poller   *Poller
	progress ProgressFunc
	observe  func(*Outcome)
	idPrefix string

	mu   sync.Mutex
	busy bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPoller replaces the default poller.
func WithPoller(p *Poller) Option {
	return func(o *Orchestrator) { o.poller = p }
}

// WithProgress adds a sink that receives every status update in addition to
// the session.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithObserver registers a callback run after each submission settles.
func WithObserver(fn func(*Outcome)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// WithIDPrefix sets the prefix of generated outcome IDs.
func WithIDPrefix(prefix string) Option {
	return func(o *Orchestrator) { o.idPrefix = prefix }
}

// NewOrchestrator wires a provider with the default poller.
func NewOrchestrator(p Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{provider: p, poller: NewPoller(), idPrefix: jobs.GenerationPrefix}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Busy reports whether a generation is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

func (o *Orchestrator) acquire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return false
	}
	o.busy = true
	return true
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// Submit validates the session's inputs, runs the matching provider call
// chain and writes the result or error back into the session. It returns
// ErrBusy without touching the session when another submission is running.
// Every other failure is folded into the session and reported through the
// outcome, so the returned error is only ever ErrBusy.
func (o *Orchestrator) Submit(ctx context.Context, s *Session) (*Outcome, error) {
	if !o.acquire() {
		return nil, ErrBusy
	}
	defer o.release()

	start := time.Now()
	in, epoch := s.begin()
	out := &Outcome{ID: jobs.NewID(o.idPrefix), Mode: in.Mode()}

	report := func(msg string) {
		s.setProgress(epoch, msg)
	}

	res, err := o.run(ctx, s, in, out, report)
	out.Duration = time.Since(start)

	if err != nil {
		state := Classify(err)
		out.Err = err
		out.Error = &state
		s.settle(epoch, nil, &state)
		log.Warn().
			Err(err).
			Str("id", out.ID).
			Str("mode", string(out.Mode)).
			Str("kind", string(KindOf(err))).
			Dur("duration", out.Duration).
			Msg("Generation failed")
	} else {
		out.Result = res
		s.settle(epoch, res, nil)
		log.Info().
			Str("id", out.ID).
			Str("mode", string(out.Mode)).
			Str("mime_type", res.MIMEType).
			Int("bytes", len(res.Data)).
			Dur("duration", out.Duration).
			Msg("Generation complete")
	}

	if o.observe != nil {
		o.observe(out)
	}
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, s *Session, in Inputs, out *Outcome, report func(string)) (*Result, error) {
	req, err := Build(in)
	if err != nil {
		return nil, err
	}
	if (in.View == ViewVideo || in.View == ViewCartoon) && !s.CredentialSelected() {
		return nil, CredentialError(msgSelectKey, nil)
	}

	report(req.ProgressLabel())
	if o.progress != nil {
		o.progress(Progress{Message: req.ProgressLabel()})
	}
	log.Debug().
		Str("id", out.ID).
		Str("mode", string(req.Mode())).
		Msg("Dispatching generation")

	switch r := req.(type) {
	case GenerateRequest:
		out.Prompt = r.Prompt
		m, err := o.provider.GenerateImage(ctx, r.Prompt, r.AspectRatio)
		return imageResult(m, err, msgGenerateNoImage)
	case EditRequest:
		out.Prompt = r.Prompt
		m, err := o.provider.EditImage(ctx, r.Prompt, []InlineImage{r.Image})
		return imageResult(m, err, msgEditNoImage)
	case EnhanceRequest:
		out.Prompt = EnhancePrompt()
		m, err := o.provider.EditImage(ctx, out.Prompt, []InlineImage{r.Image})
		return imageResult(m, err, msgEditNoImage)
	case CombineRequest:
		out.Prompt = r.Prompt
		m, err := o.provider.EditImage(ctx, r.Prompt, r.Images[:])
		return imageResult(m, err, msgCombineNoImage)
	case ThumbnailRequest:
		out.Prompt = r.Prompt
		m, err := o.provider.EditImage(ctx, r.Prompt, []InlineImage{r.Image})
		return imageResult(m, err, msgThumbnailNoImage)
	case VideoRequest:
		return o.video(ctx, r.Spec, out, report)
	case CartoonRequest:
		return o.video(ctx, r.Spec, out, report)
	case TemplateRequest:
		return o.video(ctx, r.Spec, out, report)
	default:
		return nil, ValidationError("Unsupported mode.")
	}
}

// imageResult wraps a provider image response. An empty response, or a
// provider no-result error, is reported with the mode's noResult text.
func imageResult(m *Media, err error, noResult string) (*Result, error) {
	if err != nil {
		if KindOf(err) == KindNoResult {
			return nil, newError(KindNoResult, noResult, err)
		}
		return nil, err
	}
	if m == nil || len(m.Data) == 0 {
		return nil, NoResultError(noResult)
	}
	mimeType := m.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &Result{Kind: ResultImage, MIMEType: mimeType, Data: m.Data}, nil
}

func (o *Orchestrator) video(ctx context.Context, spec VideoSpec, out *Outcome, report func(string)) (*Result, error) {
	out.Prompt = spec.Prompt
	res, rep, err := o.poller.Run(ctx, o.provider, spec, func(p Progress) {
		report(p.Message)
		if o.progress != nil {
			o.progress(p)
		}
	})
	out.Polls = rep.Polls
	return res, err
}
