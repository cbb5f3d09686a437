package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestOrchestrator(fp *fakeProvider, opts ...Option) *Orchestrator {
	opts = append([]Option{WithPoller(instantPoller())}, opts...)
	return NewOrchestrator(fp, opts...)
}

func TestSubmitValidationNeverCallsProvider(t *testing.T) {
	cases := []func(*Session){
		func(s *Session) { s.Update(func(in *Inputs) { in.PhotoMode = PhotoGenerate }) },
		func(s *Session) { s.Update(func(in *Inputs) { in.PhotoMode = PhotoEdit; in.Prompt = "hat" }) },
		func(s *Session) { s.Update(func(in *Inputs) { in.PhotoMode = PhotoEnhance }) },
		func(s *Session) { s.Update(func(in *Inputs) { in.PhotoMode = PhotoCombine; in.Prompt = "x" }) },
		func(s *Session) { s.SwitchView(ViewThumbnail) },
		func(s *Session) { s.SwitchView(ViewVideo); s.SelectCredential() },
		func(s *Session) { s.SwitchView(ViewCartoon); s.SelectCredential() },
		func(s *Session) { s.SwitchView(ViewTemplates) },
	}
	for i, setup := range cases {
		fp := &fakeProvider{}
		o := newTestOrchestrator(fp)
		s := NewSession()
		setup(s)

		out, err := o.Submit(context.Background(), s)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if out.Kind() != KindValidation {
			t.Errorf("case %d: kind = %q, want validation", i, out.Kind())
		}
		if fp.networkCalls() != 0 {
			t.Errorf("case %d: %d provider calls, want 0", i, fp.networkCalls())
		}
		if e := s.Error(); e == nil || !strings.HasPrefix(e.Message, "Please ") {
			t.Errorf("case %d: session error = %+v", i, e)
		}
	}
}

func TestSubmitGenerate(t *testing.T) {
	fp := &fakeProvider{image: &Media{Data: []byte("png"), MIMEType: "image/png"}}
	var observed *Outcome
	o := newTestOrchestrator(fp, WithObserver(func(out *Outcome) { observed = out }))
	s := NewSession()
	s.Update(func(in *Inputs) { in.Prompt = "a red fox" })

	out, err := o.Submit(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Err != nil {
		t.Fatalf("outcome error: %v", out.Err)
	}
	if fp.generateCalls != 1 || fp.lastRatio != AspectSquare {
		t.Errorf("generate calls = %d, ratio = %q", fp.generateCalls, fp.lastRatio)
	}
	if fp.lastPrompt != "a red fox. Style: realistic, 4k, ultra detail." {
		t.Errorf("prompt = %q", fp.lastPrompt)
	}
	snap := s.Snapshot()
	if snap.Result == nil || snap.Result.Kind != ResultImage || snap.Error != nil || snap.Loading {
		t.Errorf("snapshot = %+v", snap)
	}
	if observed != out {
		t.Error("observer not called with the outcome")
	}
	if !strings.HasPrefix(out.ID, "gen-") {
		t.Errorf("id = %q", out.ID)
	}
}

func TestSubmitEnhanceUsesFixedPrompt(t *testing.T) {
	fp := &fakeProvider{image: &Media{Data: []byte("png")}}
	o := newTestOrchestrator(fp)
	s := NewSession()
	s.Update(func(in *Inputs) { in.PhotoMode = PhotoEnhance; in.Prompt = "ignored" })
	s.SetImage(Slot1, "a.jpg", jpegURI)

	if _, err := o.Submit(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if fp.editCalls != 1 || fp.lastPrompt != EnhancePrompt() {
		t.Errorf("edit calls = %d, prompt = %q", fp.editCalls, fp.lastPrompt)
	}
	if len(fp.lastImages) != 1 || fp.lastImages[0].MIMEType != "image/jpeg" {
		t.Errorf("images = %+v", fp.lastImages)
	}
	if r := s.Result(); r == nil || r.MIMEType != "image/png" {
		t.Errorf("result = %+v, want default png mime", r)
	}
}

func TestSubmitCombineSendsBothImages(t *testing.T) {
	fp := &fakeProvider{image: &Media{Data: []byte("png"), MIMEType: "image/png"}}
	o := newTestOrchestrator(fp)
	s := NewSession()
	s.Update(func(in *Inputs) { in.PhotoMode = PhotoCombine; in.Prompt = "together" })
	s.SetImage(Slot1, "a.png", pngURI)
	s.SetImage(Slot2, "b.jpg", jpegURI)

	if _, err := o.Submit(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if len(fp.lastImages) != 2 {
		t.Fatalf("images = %d, want 2", len(fp.lastImages))
	}
}

func TestSubmitVideoCredentialGate(t *testing.T) {
	for _, v := range []View{ViewVideo, ViewCartoon} {
		fp := &fakeProvider{}
		o := newTestOrchestrator(fp)
		s := NewSession()
		s.SwitchView(v)
		s.Update(func(in *Inputs) { in.VideoPrompt = "x"; in.CartoonPrompt = "x" })

		out, _ := o.Submit(context.Background(), s)
		if out.Kind() != KindCredential {
			t.Errorf("%s: kind = %q, want credential", v, out.Kind())
		}
		if fp.networkCalls() != 0 {
			t.Errorf("%s: provider called without a credential", v)
		}
		if e := s.Error(); e == nil || !e.Credential {
			t.Errorf("%s: session error = %+v", v, e)
		}
	}
}

func TestSubmitTemplateNotGated(t *testing.T) {
	fp := &fakeProvider{
		ops:      []*Operation{pending("op"), done("op", "uri")},
		download: &Media{Data: []byte("mp4"), MIMEType: "video/mp4"},
	}
	o := newTestOrchestrator(fp)
	s := NewSession()
	s.SwitchView(ViewTemplates)
	s.Update(func(in *Inputs) { in.Template = &Templates[0]; in.Prompt = "city at night" })

	out, _ := o.Submit(context.Background(), s)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if fp.lastSpec.AspectRatio != AspectLandscape {
		t.Errorf("aspect = %q", fp.lastSpec.AspectRatio)
	}
	if out.Polls != 1 {
		t.Errorf("polls = %d, want 1", out.Polls)
	}
}

func TestSubmitVideoProgressAndResult(t *testing.T) {
	fp := &fakeProvider{
		ops:      []*Operation{pending("op"), pending("op"), done("op", "https://media/v")},
		download: &Media{Data: []byte("mp4"), MIMEType: "video/mp4"},
	}
	var mu sync.Mutex
	var msgs []string
	o := newTestOrchestrator(fp, WithProgress(func(p Progress) {
		mu.Lock()
		msgs = append(msgs, p.Message)
		mu.Unlock()
	}))
	s := NewSession()
	s.SwitchView(ViewVideo)
	s.SelectCredential()
	s.Update(func(in *Inputs) { in.VideoPrompt = "waves"; in.Duration = 2 })

	out, _ := o.Submit(context.Background(), s)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	want := []string{
		"Initializing video generation...",
		"Sending request to AI...",
		"AI is directing your scene... (this may take a few minutes)",
		"Rendering final frames...",
		"Downloading video...",
	}
	if strings.Join(msgs, "|") != strings.Join(want, "|") {
		t.Errorf("progress = %q, want %q", msgs, want)
	}
	if r := s.Result(); r == nil || r.Kind != ResultVideo {
		t.Errorf("result = %+v", r)
	}
	if !s.CredentialSelected() {
		t.Error("success must keep the credential selected")
	}
}

func TestSubmitCredentialErrorRevokesSelection(t *testing.T) {
	fp := &fakeProvider{
		ops:         []*Operation{done("op", "uri")},
		downloadErr: CredentialError("API key not valid. Please select a new key.", nil),
	}
	o := newTestOrchestrator(fp)
	s := NewSession()
	s.SwitchView(ViewVideo)
	s.SelectCredential()
	s.Update(func(in *Inputs) { in.VideoPrompt = "waves" })

	out, _ := o.Submit(context.Background(), s)
	if out.Kind() != KindCredential {
		t.Fatalf("kind = %q, want credential", out.Kind())
	}
	if s.CredentialSelected() {
		t.Error("credential selection should be revoked")
	}
	if e := s.Error(); e == nil || e.Message != CredentialRemediation {
		t.Errorf("error = %+v", e)
	}
}

func TestSubmitProviderErrorPreservesText(t *testing.T) {
	fp := &fakeProvider{imageErr: errors.New("Image generation failed: no images returned.")}
	o := newTestOrchestrator(fp)
	s := NewSession()
	s.Update(func(in *Inputs) { in.Prompt = "fox" })

	out, _ := o.Submit(context.Background(), s)
	if out.Kind() != KindProvider {
		t.Errorf("kind = %q", out.Kind())
	}
	if e := s.Error(); e == nil || e.Message != "An error occurred: Image generation failed: no images returned." {
		t.Errorf("error = %+v", e)
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	fp := &fakeProvider{
		image: &Media{Data: []byte("png"), MIMEType: "image/png"},
		block: make(chan struct{}),
	}
	o := newTestOrchestrator(fp)
	s := NewSession()
	s.Update(func(in *Inputs) { in.Prompt = "fox" })

	done := make(chan *Outcome)
	go func() {
		out, _ := o.Submit(context.Background(), s)
		done <- out
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !o.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}
	if !s.Snapshot().Loading {
		t.Error("session should be loading")
	}

	other := NewSession()
	if _, err := o.Submit(context.Background(), other); !errors.Is(err, ErrBusy) {
		t.Errorf("second submit err = %v, want ErrBusy", err)
	}
	if other.Error() != nil {
		t.Error("busy submission must not touch the session")
	}

	close(fp.block)
	out := <-done
	if out.Err != nil {
		t.Fatalf("first submission failed: %v", out.Err)
	}
	if o.Busy() {
		t.Error("orchestrator still busy after settle")
	}
}

func TestSubmitCanceled(t *testing.T) {
	fp := &fakeProvider{ops: []*Operation{pending("op")}}
	o := NewOrchestrator(fp, WithPoller(&Poller{Interval: time.Hour}))
	s := NewSession()
	s.SwitchView(ViewCartoon)
	s.SelectCredential()
	s.Update(func(in *Inputs) { in.CartoonPrompt = "a dancing robot" })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	out, _ := o.Submit(ctx, s)
	if out.Kind() != KindCanceled {
		t.Errorf("kind = %q, want canceled", out.Kind())
	}
	if s.Snapshot().Loading {
		t.Error("loading not cleared after cancel")
	}
}

func TestSubmitIDPrefix(t *testing.T) {
	fp := &fakeProvider{image: &Media{Data: []byte("png")}}
	o := newTestOrchestrator(fp, WithIDPrefix("lgen-"))
	s := NewSession()
	s.Update(func(in *Inputs) { in.Prompt = "x" })
	out, _ := o.Submit(context.Background(), s)
	if !strings.HasPrefix(out.ID, "lgen-") {
		t.Errorf("id = %q, want lgen- prefix", out.ID)
	}
}

func TestSubmitNoImageUsesModeText(t *testing.T) {
	tests := []struct {
		name  string
		fp    *fakeProvider
		setup func(*Session)
		want  string
	}{
		{
			name: "empty thumbnail response",
			fp:   &fakeProvider{},
			setup: func(s *Session) {
				s.SwitchView(ViewThumbnail)
				s.Update(func(in *Inputs) { in.Prompt = "shocked face" })
				s.SetImage(Slot1, "a.png", pngURI)
			},
			want: "An error occurred: Thumbnail generation failed. No image data in response.",
		},
		{
			name: "provider no-result on combine",
			fp:   &fakeProvider{imageErr: NoResultError("No image data in response.")},
			setup: func(s *Session) {
				s.Update(func(in *Inputs) { in.PhotoMode = PhotoCombine; in.Prompt = "together" })
				s.SetImage(Slot1, "a.png", pngURI)
				s.SetImage(Slot2, "b.jpg", jpegURI)
			},
			want: "An error occurred: Image combining failed. No image data in response.",
		},
		{
			name: "provider no-result on edit",
			fp:   &fakeProvider{imageErr: NoResultError("No image data in response.")},
			setup: func(s *Session) {
				s.Update(func(in *Inputs) { in.PhotoMode = PhotoEdit; in.Prompt = "add a hat" })
				s.SetImage(Slot1, "a.png", pngURI)
			},
			want: "An error occurred: Image editing failed. No image data in response.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator(tt.fp)
			s := NewSession()
			tt.setup(s)

			out, err := o.Submit(context.Background(), s)
			if err != nil {
				t.Fatal(err)
			}
			if out.Kind() != KindNoResult {
				t.Errorf("kind = %q, want no_result", out.Kind())
			}
			if e := s.Error(); e == nil || e.Message != tt.want {
				t.Errorf("error = %+v, want %q", e, tt.want)
			}
		})
	}
}
