package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/auth"
	"github.com/fpang/ai-creative-studio/internal/jobs"
	"github.com/fpang/ai-creative-studio/internal/media"
	"github.com/fpang/ai-creative-studio/internal/metrics"
	"github.com/fpang/ai-creative-studio/internal/store"
	"github.com/fpang/ai-creative-studio/internal/studio"
)

// keySetter swaps the credential the provider uses.
type keySetter interface {
	SetAPIKey(ctx context.Context, apiKey string) error
}

// maxCachedResults bounds how many generated files are kept for download.
const maxCachedResults = 20

// server owns the single studio session and the orchestrator that runs
// generations against it.
type server struct {
	session *studio.Session
	orch    *studio.Orchestrator
	keys    keySetter
	records store.GenerationStore
	outDir  string

	// pickKey opens the native key dialog; tests replace it.
	pickKey func() (string, error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	lastID  string
	results map[string]*studio.Result
	order   []string
}

func newServer(p studio.Provider, keys keySetter, records store.GenerationStore, poller *studio.Poller, outDir string) *server {
	s := &server{
		session: studio.NewSession(),
		keys:    keys,
		records: records,
		outDir:  outDir,
		pickKey: auth.SelectAPIKey,
		results: make(map[string]*studio.Result),
	}
	s.orch = studio.NewOrchestrator(p,
		studio.WithPoller(poller),
		studio.WithObserver(s.observe),
	)
	return s
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/session/view", s.handleView)
	mux.HandleFunc("/api/session/inputs", s.handleInputs)
	mux.HandleFunc("/api/session/images/", s.handleImage)
	mux.HandleFunc("/api/session/credential", s.handleCredential)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/cancel", s.handleCancel)
	mux.HandleFunc("/api/templates", handleTemplates)
	mux.HandleFunc("/api/ideas", handleIdeas)
	mux.HandleFunc("/api/generations", s.handleGenerations)
	mux.HandleFunc("/api/generations/", s.handleGenerationRoutes)
	return mux
}

// start launches a generation in the background. It reports false when one
// is already running.
func (s *server) start() bool {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			s.cancel = nil
			s.mu.Unlock()
		}()
		if _, err := s.orch.Submit(ctx, s.session); err != nil {
			log.Warn().Err(err).Msg("Generation not started")
		}
	}()
	return true
}

// cancelRunning stops the in-flight generation, if any.
func (s *server) cancelRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

func (s *server) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// observe records every settled submission: metrics, the generation record,
// and the result bytes for download.
func (s *server) observe(out *studio.Outcome) {
	metrics.RecordOutcome(out)

	rec := &store.GenerationRecord{
		ID:         out.ID,
		Mode:       string(out.Mode),
		Prompt:     out.Prompt,
		Status:     store.StatusCompleted,
		DurationMs: out.Duration.Milliseconds(),
		Polls:      out.Polls,
		CreatedAt:  time.Now().Unix(),
	}
	if out.Error != nil {
		rec.Status = store.StatusFailed
		rec.ErrorKind = string(out.Kind())
		rec.ErrorMessage = out.Error.Message
	}
	if out.Result != nil {
		rec.MIMEType = out.Result.MIMEType
		rec.Bytes = len(out.Result.Data)
		s.cacheResult(out.ID, out.Result)
		if s.outDir != "" {
			if path, err := media.SaveResult(s.outDir, out.ID, out.Result); err != nil {
				log.Error().Err(err).Str("id", out.ID).Msg("Failed to save result")
			} else {
				rec.ObjectKey = path
			}
		}
	}
	if err := s.records.PutGeneration(context.Background(), rec); err != nil {
		log.Error().Err(err).Str("id", out.ID).Msg("Failed to record generation")
	}

	s.mu.Lock()
	s.lastID = out.ID
	s.mu.Unlock()
}

func (s *server) cacheResult(id string, res *studio.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = res
	s.order = append(s.order, id)
	for len(s.order) > maxCachedResults {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *server) cachedResult(id string) *studio.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[id]
}

// setKey installs a new API key and marks the credential as selected.
func (s *server) setKey(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("apiKey is required")
	}
	if err := s.keys.SetAPIKey(ctx, key); err != nil {
		return err
	}
	s.session.SelectCredential()
	log.Info().Msg("API key selected for the session")
	return nil
}

// generationID normalizes a path ID to carry the generation prefix.
func generationID(path string) (id, action string, ok bool) {
	return jobs.ParseRoute(path, "/api/generations/", jobs.GenerationPrefix)
}
