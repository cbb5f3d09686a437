package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

func TestApplyCommon_Aspect(t *testing.T) {
	t.Cleanup(func() { aspectFlag, imageFlags, pickFlag = "", nil, false })

	aspectFlag = "9:16"
	in := studio.Inputs{View: studio.ViewVideo}
	if err := applyCommon(&in, 0); err != nil {
		t.Fatalf("applyCommon() error = %v", err)
	}
	if in.AspectRatio != studio.AspectPortrait {
		t.Errorf("AspectRatio = %q, want 9:16", in.AspectRatio)
	}

	aspectFlag = "4:3"
	if err := applyCommon(&in, 0); err == nil {
		t.Error("expected error for unsupported aspect ratio")
	}
}

func TestApplyCommon_TooManyImages(t *testing.T) {
	t.Cleanup(func() { imageFlags = nil })
	imageFlags = []string{"a.png", "b.png", "c.png"}
	in := studio.Inputs{}
	if err := applyCommon(&in, 2); err == nil || !strings.Contains(err.Error(), "at most two") {
		t.Errorf("applyCommon() error = %v, want too-many-images", err)
	}
}

func TestPromptFrom(t *testing.T) {
	if got := promptFrom([]string{"a", "red", "fox"}, ""); got != "a red fox" {
		t.Errorf("promptFrom() = %q", got)
	}
	if got := promptFrom(nil, ""); got != "" {
		t.Errorf("promptFrom(nil) = %q, want empty", got)
	}
}

func TestTemplatesCommand(t *testing.T) {
	var buf bytes.Buffer
	templatesCmd.SetOut(&buf)
	templatesCmd.Run(templatesCmd, nil)
	for _, tmpl := range studio.Templates {
		if !strings.Contains(buf.String(), tmpl.Name) {
			t.Errorf("templates output missing %q", tmpl.Name)
		}
	}
}

func TestIdeasCommand(t *testing.T) {
	var buf bytes.Buffer
	ideasCmd.SetOut(&buf)
	ideasCmd.Run(ideasCmd, nil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(studio.PromptIdeas) {
		t.Errorf("ideas printed %d lines, want %d", len(lines), len(studio.PromptIdeas))
	}
}

func TestTemplateInputs(t *testing.T) {
	t.Cleanup(func() { templateFlag, durationFlag = "", studio.DefaultDurationMinutes })
	templateFlag, durationFlag = "retro vhs", 3

	in, err := templateInputs([]string{"a", "road", "trip"})
	if err != nil {
		t.Fatalf("templateInputs() error = %v", err)
	}
	if in.Prompt != "a road trip" || in.Template == nil || in.Template.Name != "Retro VHS" {
		t.Fatalf("inputs = %+v", in)
	}
	req, err := studio.Build(in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if req.Mode() != studio.ModeTemplate {
		t.Errorf("mode = %q, want template", req.Mode())
	}

	templateFlag = "Nope"
	if _, err := templateInputs([]string{"x"}); err == nil {
		t.Error("expected unknown template error")
	}
}
