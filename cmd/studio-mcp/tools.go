package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/media"
	"github.com/fpang/ai-creative-studio/internal/metrics"
	"github.com/fpang/ai-creative-studio/internal/studio"
)

// ToolInput is the argument object shared by every generation tool.
type ToolInput struct {
	Prompt      string   `json:"prompt,omitempty" jsonschema:"prompt, editing instruction, story or topic, depending on the tool"`
	Title       string   `json:"title,omitempty" jsonschema:"thumbnail title text"`
	CloneURL    string   `json:"cloneUrl,omitempty" jsonschema:"URL of a thumbnail whose style to copy"`
	Template    string   `json:"template,omitempty" jsonschema:"template name, see studio_templates"`
	AspectRatio string   `json:"aspectRatio,omitempty" jsonschema:"1:1, 16:9 or 9:16"`
	Duration    int      `json:"duration,omitempty" jsonschema:"approximate video length in minutes, 1 to 20"`
	ImagePaths  []string `json:"imagePaths,omitempty" jsonschema:"local image files to use as inputs"`
}

// ToolOutput is the structured result of a generation tool.
type ToolOutput struct {
	ID       string `json:"id"`
	Mode     string `json:"mode"`
	Path     string `json:"path"`
	MIMEType string `json:"mimeType"`
	Bytes    int    `json:"bytes"`
}

// TemplatesOutput lists the built-in video templates.
type TemplatesOutput struct {
	Templates []studio.Template `json:"templates"`
}

var toolDescriptions = map[studio.Mode]string{
	studio.ModeGenerate:  "Generate an image from a text prompt.",
	studio.ModeEdit:      "Edit one image (imagePaths[0]) with a text instruction.",
	studio.ModeEnhance:   "Upscale and restore one image (imagePaths[0]).",
	studio.ModeCombine:   "Merge two images (imagePaths[0], imagePaths[1]) following the prompt.",
	studio.ModeThumbnail: "Render a YouTube-style thumbnail from a photo (imagePaths[0]) with a title and/or instructions.",
	studio.ModeVideo:     "Generate a video from a prompt, optionally seeded with imagePaths[0]. Takes several minutes.",
	studio.ModeCartoon:   "Turn a story into a short animated cartoon. Takes several minutes.",
	studio.ModeTemplate:  "Generate a landscape video about the prompt in a built-in template style. Takes several minutes.",
}

// tools runs generations for the MCP handlers. Calls are serialized by the
// orchestrator; a concurrent call fails with ErrBusy.
type tools struct {
	orch   *studio.Orchestrator
	outDir string
}

func newTools(p studio.Provider, poller *studio.Poller, outDir string) *tools {
	return &tools{
		orch: studio.NewOrchestrator(p,
			studio.WithPoller(poller),
			studio.WithObserver(metrics.RecordOutcome),
			studio.WithProgress(func(pr studio.Progress) {
				log.Info().Str("phase", string(pr.Phase)).Msg(pr.Message)
			}),
		),
		outDir: outDir,
	}
}

func newServer(t *tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "ai-creative-studio", Version: version}, nil)
	for _, mode := range studio.Modes {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "studio_" + string(mode),
			Description: toolDescriptions[mode],
		}, func(ctx context.Context, req *mcp.CallToolRequest, in ToolInput) (*mcp.CallToolResult, ToolOutput, error) {
			return t.run(ctx, mode, in)
		})
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "studio_templates",
		Description: "List the built-in video templates.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, TemplatesOutput, error) {
		return nil, TemplatesOutput{Templates: studio.Templates}, nil
	})
	return server
}

// run executes one mode and saves the result.
func (t *tools) run(ctx context.Context, mode studio.Mode, in ToolInput) (*mcp.CallToolResult, ToolOutput, error) {
	params := studio.Params{
		Mode:        mode,
		Prompt:      in.Prompt,
		Title:       in.Title,
		CloneURL:    in.CloneURL,
		Template:    in.Template,
		AspectRatio: studio.AspectRatio(in.AspectRatio),
		Duration:    in.Duration,
	}
	for _, p := range in.ImagePaths {
		up, err := media.LoadImage(p)
		if err != nil {
			return nil, ToolOutput{}, err
		}
		params.Images = append(params.Images, studio.ImageSlot{Name: up.Name, DataURI: up.DataURI})
	}
	inputs, err := params.Inputs()
	if err != nil {
		return nil, ToolOutput{}, err
	}

	out, err := t.orch.Submit(ctx, studio.SessionFor(inputs, true))
	if err != nil {
		return nil, ToolOutput{}, err
	}
	if out.Error != nil {
		return nil, ToolOutput{}, errors.New(out.Error.Message)
	}

	path, err := media.SaveResult(t.outDir, out.ID, out.Result)
	if err != nil {
		return nil, ToolOutput{}, err
	}
	output := ToolOutput{
		ID:       out.ID,
		Mode:     string(out.Mode),
		Path:     path,
		MIMEType: out.Result.MIMEType,
		Bytes:    len(out.Result.Data),
	}

	content := []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Saved %s to %s", out.Mode, path)}}
	if out.Result.Kind == studio.ResultImage {
		content = append(content, &mcp.ImageContent{Data: out.Result.Data, MIMEType: out.Result.MIMEType})
	}
	return &mcp.CallToolResult{Content: content}, output, nil
}
