package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fpang/ai-creative-studio/internal/events"
	"github.com/fpang/ai-creative-studio/internal/jobs"
	"github.com/fpang/ai-creative-studio/internal/media"
	"github.com/fpang/ai-creative-studio/internal/metrics"
	"github.com/fpang/ai-creative-studio/internal/s3util"
	"github.com/fpang/ai-creative-studio/internal/store"
	"github.com/fpang/ai-creative-studio/internal/studio"
)

// objectAPI is the S3 surface the handler needs.
type objectAPI interface {
	s3util.PutObjectAPI
	s3util.GetObjectAPI
}

// GenerationEvent is the invocation payload. Images may be given inline as
// data URIs or as keys in the media bucket.
type GenerationEvent struct {
	studio.Params
	ImageKeys []string `json:"imageKeys,omitempty"`
}

// GenerationResult is returned to the caller.
type GenerationResult struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	ObjectKey  string `json:"objectKey,omitempty"`
	URL        string `json:"url,omitempty"`
	MIMEType   string `json:"mimeType,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorKind  string `json:"errorKind,omitempty"`
	Credential bool   `json:"credential,omitempty"`
	DurationMs int64  `json:"durationMs"`
	Polls      int    `json:"polls,omitempty"`
}

type generationHandler struct {
	provider studio.Provider
	poller   *studio.Poller
	objects  objectAPI
	bucket   string
	presign  func(ctx context.Context, key string) (string, error)
	records  store.GenerationStore
	bus      events.PutEventsAPI
	busName  string
	now      func() time.Time
}

func presignWith(p *s3.PresignClient, bucket string) func(context.Context, string) (string, error) {
	return func(ctx context.Context, key string) (string, error) {
		return s3util.GeneratePresignedURL(ctx, p, bucket, key, s3util.DefaultURLExpiry)
	}
}

// handle runs one generation. Generation failures are reported in the
// result; only storage failures return an error.
func (h *generationHandler) handle(ctx context.Context, event GenerationEvent) (GenerationResult, error) {
	logger := log.With().Str("mode", string(event.Mode)).Logger()

	if err := h.resolveImages(ctx, &event); err != nil {
		logger.Warn().Err(err).Msg("Failed to load input images")
		return GenerationResult{Mode: string(event.Mode), Status: store.StatusFailed, Error: err.Error(), ErrorKind: string(studio.KindValidation)}, nil
	}
	in, err := event.Params.Inputs()
	if err != nil {
		return GenerationResult{Mode: string(event.Mode), Status: store.StatusFailed, Error: err.Error(), ErrorKind: string(studio.KindValidation)}, nil
	}

	orch := studio.NewOrchestrator(h.provider,
		studio.WithPoller(h.poller),
		studio.WithIDPrefix(jobs.LambdaPrefix),
		studio.WithObserver(metrics.RecordOutcome),
		studio.WithProgress(func(p studio.Progress) {
			logger.Info().Str("phase", string(p.Phase)).Msg(p.Message)
		}),
	)
	// The key loaded from SSM is the selected credential.
	out, err := orch.Submit(ctx, studio.SessionFor(in, true))
	if err != nil {
		return GenerationResult{}, err
	}

	res := GenerationResult{
		ID:         out.ID,
		Mode:       string(out.Mode),
		Status:     store.StatusCompleted,
		DurationMs: out.Duration.Milliseconds(),
		Polls:      out.Polls,
	}
	rec := &store.GenerationRecord{
		ID:         out.ID,
		Mode:       string(out.Mode),
		Prompt:     out.Prompt,
		DurationMs: res.DurationMs,
		Polls:      out.Polls,
		CreatedAt:  h.clock().Unix(),
	}

	if out.Error != nil {
		res.Status = store.StatusFailed
		res.Error = out.Error.Message
		res.ErrorKind = string(out.Kind())
		res.Credential = out.Error.Credential
	} else {
		key := s3util.ResultKey(out.ID, out.Mode, out.Result, h.clock())
		res.ObjectKey = key
		res.MIMEType = out.Result.MIMEType

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return s3util.UploadResult(gctx, h.objects, h.bucket, key, out.Result, map[string]string{
				"generation-id": out.ID,
				"mode":          string(out.Mode),
			})
		})
		g.Go(func() error {
			url, err := h.presign(gctx, key)
			if err != nil {
				return err
			}
			res.URL = url
			return nil
		})
		if err := g.Wait(); err != nil {
			logger.Error().Err(err).Str("id", out.ID).Msg("Failed to store result")
			return res, fmt.Errorf("store result %s: %w", out.ID, err)
		}
		rec.MIMEType = out.Result.MIMEType
		rec.Bytes = len(out.Result.Data)
		rec.ObjectKey = key
	}
	rec.Status = res.Status
	rec.ErrorKind = res.ErrorKind
	rec.ErrorMessage = res.Error

	h.publish(ctx, rec)

	logger.Info().
		Str("id", res.ID).
		Str("status", res.Status).
		Int64("durationMs", res.DurationMs).
		Msg("Generation finished")
	return res, nil
}

// publish writes the record and emits the event side by side. Both are
// best effort: the result is already in S3.
func (h *generationHandler) publish(ctx context.Context, rec *store.GenerationRecord) {
	var g errgroup.Group
	if h.records != nil {
		g.Go(func() error {
			if err := h.records.PutGeneration(ctx, rec); err != nil {
				log.Error().Err(err).Str("id", rec.ID).Msg("Failed to record generation")
			}
			return nil
		})
	}
	if h.bus != nil {
		g.Go(func() error {
			err := events.EmitGeneration(ctx, h.bus, h.busName, events.Generation{
				ID:         rec.ID,
				Mode:       rec.Mode,
				Status:     rec.Status,
				ErrorKind:  rec.ErrorKind,
				Error:      rec.ErrorMessage,
				MIMEType:   rec.MIMEType,
				ObjectKey:  rec.ObjectKey,
				DurationMs: rec.DurationMs,
				Polls:      rec.Polls,
				Timestamp:  time.Unix(rec.CreatedAt, 0).UTC(),
			})
			if err != nil {
				log.Error().Err(err).Str("id", rec.ID).Msg("Failed to emit generation event")
			}
			return nil
		})
	}
	g.Wait()
}

// resolveImages fetches imageKeys from the media bucket and appends them to
// the inline images as data URIs.
func (h *generationHandler) resolveImages(ctx context.Context, event *GenerationEvent) error {
	for _, key := range event.ImageKeys {
		data, contentType, err := s3util.FetchObject(ctx, h.objects, h.bucket, key, media.MaxUploadBytes)
		if err != nil {
			return err
		}
		if contentType == "" || contentType == "application/octet-stream" {
			if ct, err := media.MIMETypeFor(key); err == nil {
				contentType = ct
			}
		}
		event.Images = append(event.Images, studio.ImageSlot{
			Name:    key,
			DataURI: studio.EncodeDataURI(contentType, data),
		})
	}
	return nil
}

func (h *generationHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}
