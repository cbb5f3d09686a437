package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

// newTestClient creates a Client whose downloads go to the given test server.
func newTestClient(ts *httptest.Server, apiKey string) *Client {
	return &Client{
		models:     ModelsFromEnv(),
		httpClient: ts.Client(),
		apiKey:     apiKey,
	}
}

func TestDownloadMediaAppendsKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("key = %q, want secret", got)
		}
		if got := r.URL.Query().Get("alt"); got != "media" {
			t.Errorf("existing query lost: alt = %q", got)
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("mp4-bytes"))
	}))
	defer ts.Close()

	c := newTestClient(ts, "secret")
	m, err := c.DownloadMedia(context.Background(), ts.URL+"/v1beta/files/abc:download?alt=media")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(m.Data) != "mp4-bytes" || m.MIMEType != "video/mp4" {
		t.Errorf("media = %q (%s)", m.Data, m.MIMEType)
	}
}

func TestDownloadMedia404IsCredentialError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, "expired").DownloadMedia(context.Background(), ts.URL+"/file")
	if studio.KindOf(err) != studio.KindCredential {
		t.Fatalf("kind = %q, want credential (err=%v)", studio.KindOf(err), err)
	}
	state := studio.Classify(err)
	if !state.Credential || state.Message != studio.CredentialRemediation {
		t.Errorf("classified = %+v", state)
	}
}

func TestDownloadMediaServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, "k").DownloadMedia(context.Background(), ts.URL+"/file")
	if err == nil || err.Error() != "Failed to download video: Internal Server Error" {
		t.Fatalf("err = %v", err)
	}
	if studio.KindOf(err) != studio.KindProvider {
		t.Errorf("kind = %q, want provider", studio.KindOf(err))
	}
}

func TestDownloadMediaDefaultsMIME(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("x"))
	}))
	defer ts.Close()

	m, err := newTestClient(ts, "k").DownloadMedia(context.Background(), ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	if m.MIMEType != "video/mp4" {
		t.Errorf("MIMEType = %q", m.MIMEType)
	}
}

func TestToOperation(t *testing.T) {
	tests := []struct {
		name      string
		op        *genai.GenerateVideosOperation
		wantDone  bool
		wantURI   string
		wantError string
	}{
		{
			name: "pending",
			op:   &genai.GenerateVideosOperation{Name: "operations/1"},
		},
		{
			name: "done with video",
			op: &genai.GenerateVideosOperation{
				Name: "operations/1",
				Done: true,
				Response: &genai.GenerateVideosResponse{
					GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: "https://files/v"}}},
				},
			},
			wantDone: true,
			wantURI:  "https://files/v",
		},
		{
			name:     "done without video",
			op:       &genai.GenerateVideosOperation{Name: "operations/1", Done: true, Response: &genai.GenerateVideosResponse{}},
			wantDone: true,
		},
		{
			name: "operation error",
			op: &genai.GenerateVideosOperation{
				Name:  "operations/1",
				Done:  true,
				Error: map[string]any{"code": 3, "message": "prompt rejected"},
			},
			wantDone:  true,
			wantError: "prompt rejected",
		},
		{
			name: "filtered",
			op: &genai.GenerateVideosOperation{
				Name: "operations/1",
				Done: true,
				Response: &genai.GenerateVideosResponse{
					RAIMediaFilteredReasons: []string{"celebrity"},
				},
			},
			wantDone:  true,
			wantError: "Video blocked by safety filters: celebrity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toOperation(tt.op)
			if got.Name != tt.op.Name || got.Done != tt.wantDone || got.MediaURI != tt.wantURI || got.Error != tt.wantError {
				t.Errorf("toOperation() = %+v", got)
			}
		})
	}
}

func TestClassifyAPIError(t *testing.T) {
	forbidden := genai.APIError{Code: 403, Message: "Permission denied", Status: "PERMISSION_DENIED"}
	if got := classifyAPIError(forbidden); studio.KindOf(got) != studio.KindCredential {
		t.Errorf("403: kind = %q", studio.KindOf(got))
	}

	invalid := genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key.", Status: "INVALID_ARGUMENT"}
	got := classifyAPIError(invalid)
	if studio.KindOf(got) != studio.KindCredential {
		t.Errorf("400 invalid key: kind = %q", studio.KindOf(got))
	}

	plain := errors.New("connection reset")
	if got := classifyAPIError(plain); got != plain {
		t.Errorf("plain error should pass through unchanged, got %v", got)
	}
}

func TestModelsFromEnv(t *testing.T) {
	t.Setenv("STUDIO_IMAGE_MODEL", "")
	t.Setenv("STUDIO_EDIT_MODEL", ModelGemini3ProImage)
	t.Setenv("STUDIO_VIDEO_MODEL", "")

	m := ModelsFromEnv()
	if m.Image != DefaultImageModelName {
		t.Errorf("Image = %q", m.Image)
	}
	if m.Edit != ModelGemini3ProImage {
		t.Errorf("Edit = %q", m.Edit)
	}
	if m.Video != DefaultVideoModelName {
		t.Errorf("Video = %q", m.Video)
	}
}

func TestSetAPIKeyEmpty(t *testing.T) {
	c := &Client{}
	if err := c.SetAPIKey(context.Background(), ""); studio.KindOf(err) != studio.KindCredential {
		t.Errorf("err = %v, want credential error", err)
	}
}
