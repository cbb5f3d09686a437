package studio

import (
	"fmt"
	"sync"
)

// Slot identifies one of the two upload slots.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// ParseSlot accepts "1" or "2".
func ParseSlot(s string) (Slot, error) {
	switch s {
	case "1":
		return Slot1, nil
	case "2":
		return Slot2, nil
	}
	return 0, fmt.Errorf("unknown image slot %q", s)
}

// ImageSlot is an uploaded image held by the session.
type ImageSlot struct {
	Name    string `json:"name"`
	DataURI string `json:"dataUri"`
}

// Inline converts the slot's data URI to the provider transport pair.
func (s *ImageSlot) Inline() InlineImage {
	return ParseDataURI(s.DataURI)
}

// Inputs is the user-editable part of a session.
type Inputs struct {
	View          View        `json:"view"`
	PhotoMode     PhotoMode   `json:"photoMode"`
	AspectRatio   AspectRatio `json:"aspectRatio"`
	Duration      int         `json:"duration"`
	Prompt        string      `json:"prompt"`
	Title         string      `json:"title"`
	CloneURL      string      `json:"cloneUrl"`
	VideoPrompt   string      `json:"videoPrompt"`
	CartoonPrompt string      `json:"cartoonPrompt"`
	Template      *Template   `json:"template,omitempty"`
	Image1        *ImageSlot  `json:"image1,omitempty"`
	Image2        *ImageSlot  `json:"image2,omitempty"`
}

// Mode is the operation these inputs would run.
func (in Inputs) Mode() Mode {
	return modeFor(in.View, in.PhotoMode)
}

// ResultKind says whether a result is an image or a video.
type ResultKind string

const (
	ResultImage ResultKind = "image"
	ResultVideo ResultKind = "video"
)

// Result is the single generated artifact a session shows. Holding one value
// means an image result and a video result can never coexist.
type Result struct {
	Kind     ResultKind
	MIMEType string
	Data     []byte
}

// DataURI renders the result for inline display.
func (r *Result) DataURI() string {
	return EncodeDataURI(r.MIMEType, r.Data)
}

// Snapshot is a consistent copy of the session for display.
type Snapshot struct {
	Inputs             Inputs      `json:"inputs"`
	Mode               Mode        `json:"mode"`
	Result             *Result     `json:"-"`
	Error              *ErrorState `json:"error,omitempty"`
	Loading            bool        `json:"loading"`
	Progress           string      `json:"progress,omitempty"`
	CredentialSelected bool        `json:"credentialSelected"`
}

// Session is the in-memory state of one user's creative request. All
// methods are safe for concurrent use.
type Session struct {
	mu                 sync.Mutex
	in                 Inputs
	result             *Result
	err                *ErrorState
	loading            bool
	progress           string
	credentialSelected bool
	// epoch advances on every view switch so a generation started under an
	// earlier view cannot write its outcome into the new one.
	epoch uint64
}

// NewSession starts on the Photo view in Generate mode.
func NewSession() *Session {
	s := &Session{}
	s.reset(ViewPhoto)
	s.in.PhotoMode = PhotoGenerate
	return s
}

// SessionFor builds a session already positioned on in.View with in
// applied. Headless entry points create one per request.
func SessionFor(in Inputs, credentialSelected bool) *Session {
	s := NewSession()
	if in.View == "" {
		in.View = ViewPhoto
	}
	s.SwitchView(in.View)
	s.Update(func(cur *Inputs) {
		if in.PhotoMode == "" {
			in.PhotoMode = cur.PhotoMode
		}
		if in.Duration == 0 {
			in.Duration = cur.Duration
		}
		*cur = in
	})
	s.credentialSelected = credentialSelected
	return s
}

// reset clears every per-view field. Caller holds mu.
func (s *Session) reset(v View) {
	photoMode := s.in.PhotoMode
	s.in = Inputs{
		View:        v,
		PhotoMode:   photoMode,
		AspectRatio: DefaultAspectRatio(v),
		Duration:    DefaultDurationMinutes,
	}
	s.result = nil
	s.err = nil
	s.epoch++
}

// SwitchView moves to another top-level view, discarding prompts, uploads,
// the result and any error, and restoring the view's default aspect ratio.
func (s *Session) SwitchView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(v)
}

// Update applies an edit to the inputs. The view cannot be changed this way;
// use SwitchView. Duration is clamped to the slider range.
func (s *Session) Update(fn func(*Inputs)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.in.View
	fn(&s.in)
	s.in.View = view
	s.in.Duration = ClampDuration(s.in.Duration)
	if s.in.AspectRatio == "" {
		s.in.AspectRatio = DefaultAspectRatio(view)
	}
}

// SetImage stores an uploaded image in a slot.
func (s *Session) SetImage(slot Slot, name, dataURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := &ImageSlot{Name: name, DataURI: dataURI}
	if slot == Slot2 {
		s.in.Image2 = img
	} else {
		s.in.Image1 = img
	}
}

// ClearImage empties a slot.
func (s *Session) ClearImage(slot Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot == Slot2 {
		s.in.Image2 = nil
	} else {
		s.in.Image1 = nil
	}
}

// SelectCredential marks that the user has chosen an API key, unlocking the
// Video and Cartoon views.
func (s *Session) SelectCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentialSelected = true
}

// CredentialSelected reports whether an API key has been chosen.
func (s *Session) CredentialSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentialSelected
}

// Inputs returns a copy of the current inputs.
func (s *Session) Inputs() Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in
}

// Result returns the current result, if any.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Error returns the current error state, if any.
func (s *Session) Error() *ErrorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns a consistent view of the whole session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Inputs:             s.in,
		Mode:               s.in.Mode(),
		Result:             s.result,
		Loading:            s.loading,
		Progress:           s.progress,
		CredentialSelected: s.credentialSelected,
	}
	if s.err != nil {
		e := *s.err
		snap.Error = &e
	}
	return snap
}

// begin clears the previous outcome and marks the session loading. It
// returns the inputs to build from and the epoch the outcome must match.
func (s *Session) begin() (Inputs, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.err = nil
	s.loading = true
	s.progress = ""
	return s.in, s.epoch
}

func (s *Session) setProgress(epoch uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch && s.loading {
		s.progress = msg
	}
}

// settle folds an outcome into the session and clears the loading state.
// Exactly one of res and state is non-nil. Outcomes from a previous view
// are dropped.
func (s *Session) settle(epoch uint64, res *Result, state *ErrorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.progress = ""
	if state != nil && state.Credential {
		s.credentialSelected = false
	}
	if s.epoch != epoch {
		return
	}
	s.result = res
	s.err = state
}
