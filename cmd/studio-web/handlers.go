package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

// resultView is the result as the UI renders it.
type resultView struct {
	ID       string            `json:"id,omitempty"`
	Kind     studio.ResultKind `json:"kind"`
	MIMEType string            `json:"mimeType"`
	DataURI  string            `json:"dataUri"`
}

type sessionView struct {
	studio.Snapshot
	Result *resultView `json:"result,omitempty"`
}

// GET /api/session
func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.respondSession(w, http.StatusOK)
}

func (s *server) respondSession(w http.ResponseWriter, status int) {
	snap := s.session.Snapshot()
	view := sessionView{Snapshot: snap}
	if snap.Result != nil {
		s.mu.Lock()
		id := s.lastID
		s.mu.Unlock()
		view.Result = &resultView{
			ID:       id,
			Kind:     snap.Result.Kind,
			MIMEType: snap.Result.MIMEType,
			DataURI:  snap.Result.DataURI(),
		}
	}
	respondJSON(w, status, view)
}

// POST /api/session/view {"view": "Video"}
func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		View string `json:"view"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := studio.ParseView(req.View)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.SwitchView(v)
	s.respondSession(w, http.StatusOK)
}

// inputsPatch is a partial update; nil fields are left alone.
type inputsPatch struct {
	PhotoMode     *string `json:"photoMode"`
	AspectRatio   *string `json:"aspectRatio"`
	Duration      *int    `json:"duration"`
	Prompt        *string `json:"prompt"`
	Title         *string `json:"title"`
	CloneURL      *string `json:"cloneUrl"`
	VideoPrompt   *string `json:"videoPrompt"`
	CartoonPrompt *string `json:"cartoonPrompt"`
	Template      *string `json:"template"`
}

// POST /api/session/inputs
func (s *server) handleInputs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var p inputsPatch
	if !decodeJSON(w, r, &p) {
		return
	}

	var (
		photoMode studio.PhotoMode
		ratio     studio.AspectRatio
		tmpl      *studio.Template
		err       error
	)
	if p.PhotoMode != nil {
		if photoMode, err = studio.ParsePhotoMode(*p.PhotoMode); err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if p.AspectRatio != nil {
		if ratio, err = studio.ParseAspectRatio(*p.AspectRatio); err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if p.Template != nil && *p.Template != "" {
		t, ok := studio.FindTemplate(*p.Template)
		if !ok {
			httpError(w, http.StatusBadRequest, "unknown template")
			return
		}
		tmpl = &t
	}

	s.session.Update(func(in *studio.Inputs) {
		if p.PhotoMode != nil {
			in.PhotoMode = photoMode
		}
		if p.AspectRatio != nil {
			in.AspectRatio = ratio
		}
		if p.Duration != nil {
			in.Duration = *p.Duration
		}
		setString(&in.Prompt, p.Prompt)
		setString(&in.Title, p.Title)
		setString(&in.CloneURL, p.CloneURL)
		setString(&in.VideoPrompt, p.VideoPrompt)
		setString(&in.CartoonPrompt, p.CartoonPrompt)
		if p.Template != nil {
			in.Template = tmpl
		}
	})
	s.respondSession(w, http.StatusOK)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// POST /api/session/images/{slot} {"name": "...", "dataUri": "data:..."}
// DELETE /api/session/images/{slot}
func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	slot, err := studio.ParseSlot(strings.TrimPrefix(r.URL.Path, "/api/session/images/"))
	if err != nil {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req struct {
			Name    string `json:"name"`
			DataURI string `json:"dataUri"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if !strings.HasPrefix(req.DataURI, "data:") {
			httpError(w, http.StatusBadRequest, "dataUri must be a data: URI")
			return
		}
		s.session.SetImage(slot, req.Name, req.DataURI)
	case http.MethodDelete:
		s.session.ClearImage(slot)
	default:
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.respondSession(w, http.StatusOK)
}

// POST /api/session/credential {"apiKey": "..."} or {"pick": true}
func (s *server) handleCredential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		APIKey string `json:"apiKey"`
		Pick   bool   `json:"pick"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	key := req.APIKey
	if req.Pick {
		picked, err := s.pickKey()
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		key = picked
	}
	if err := s.setKey(r.Context(), key); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondSession(w, http.StatusOK)
}

// POST /api/generate
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.start() {
		httpError(w, http.StatusConflict, studio.ErrBusy.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// POST /api/cancel
func (s *server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"canceled": s.cancelRunning()})
}

// GET /api/templates
func handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, studio.Templates)
}

// GET /api/ideas
func handleIdeas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, studio.PromptIdeas)
}

// GET /api/generations?day=yyyy-mm-dd
func (s *server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	recs, err := s.records.ListGenerations(r.Context(), r.URL.Query().Get("day"))
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to list generations")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"generations": recs})
}

// GET /api/generations/{id}
// GET /api/generations/{id}/media
func (s *server) handleGenerationRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, action, ok := generationID(r.URL.Path)
	if !ok {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "":
		rec, err := s.records.GetGeneration(r.Context(), id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to load generation")
			return
		}
		if rec == nil {
			httpError(w, http.StatusNotFound, "generation not found")
			return
		}
		respondJSON(w, http.StatusOK, rec)
	case "media":
		res := s.cachedResult(id)
		if res == nil {
			httpError(w, http.StatusNotFound, "media not found")
			return
		}
		w.Header().Set("Content-Type", res.MIMEType)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write(res.Data)
	default:
		httpError(w, http.StatusNotFound, "not found")
	}
}
