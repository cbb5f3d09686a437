package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

// Per-command flags.
var (
	imageFlags    []string
	pickFlag      bool
	titleFlag     string
	cloneURLFlag  string
	durationFlag  int
	templateFlag  string
	exportDirFlag string
	exportDest    string
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate an image from a text prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := photoInputs(studio.PhotoGenerate, args, 0)
		if err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit --image <file> [instruction]",
	Short: "Edit an image with a text instruction",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := photoInputs(studio.PhotoEdit, args, 1)
		if err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance --image <file>",
	Short: "Upscale and restore an image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := photoInputs(studio.PhotoEnhance, nil, 1)
		if err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var combineCmd = &cobra.Command{
	Use:   "combine --image <a> --image <b> [instruction]",
	Short: "Merge two images into one scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := photoInputs(studio.PhotoCombine, args, 2)
		if err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail --image <file> [instructions]",
	Short: "Render a YouTube-style thumbnail from a photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := studio.Inputs{
			View:     studio.ViewThumbnail,
			Prompt:   promptFrom(args, ""),
			Title:    titleFlag,
			CloneURL: cloneURLFlag,
		}
		if err := applyCommon(&in, 1); err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var videoCmd = &cobra.Command{
	Use:   "video [prompt]",
	Short: "Generate a video, optionally seeded with --image",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := studio.Inputs{
			View:        studio.ViewVideo,
			VideoPrompt: promptFrom(args, "Video prompt"),
			Duration:    durationFlag,
		}
		if err := applyCommon(&in, 0); err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var cartoonCmd = &cobra.Command{
	Use:   "cartoon [story]",
	Short: "Turn a story into a short animated cartoon",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := studio.Inputs{
			View:          studio.ViewCartoon,
			CartoonPrompt: promptFrom(args, "Story"),
			Duration:      durationFlag,
		}
		if err := applyCommon(&in, 0); err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var templateCmd = &cobra.Command{
	Use:   "template --template <name> [topic]",
	Short: "Generate a landscape video in a built-in template style",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := templateInputs(args)
		if err != nil {
			return err
		}
		return submit(cmd, in)
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in video templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, t := range studio.Templates {
			fmt.Fprintf(w, "%-20s %s\n", t.Name, t.Description)
		}
	},
}

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Print starter prompt ideas",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, idea := range studio.PromptIdeas {
			fmt.Fprintln(cmd.OutOrStdout(), idea)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{editCmd, enhanceCmd, combineCmd, thumbnailCmd, videoCmd} {
		c.Flags().StringArrayVarP(&imageFlags, "image", "i", nil, "Input image file")
		c.Flags().BoolVar(&pickFlag, "pick", false, "Choose input images in a file dialog")
	}
	for _, c := range []*cobra.Command{videoCmd, cartoonCmd, templateCmd} {
		c.Flags().IntVarP(&durationFlag, "duration", "d", studio.DefaultDurationMinutes,
			fmt.Sprintf("Approximate length in minutes (%d-%d)", studio.MinDurationMinutes, studio.MaxDurationMinutes))
	}
	thumbnailCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Title text to render on the thumbnail")
	thumbnailCmd.Flags().StringVar(&cloneURLFlag, "clone-url", "", "URL of a thumbnail whose style to copy")
	templateCmd.Flags().StringVar(&templateFlag, "template", "", "Template name (see 'studio templates')")
	exportCmd.Flags().StringVar(&exportDirFlag, "dir", "", "Directory of results to bundle (default --out)")
	exportCmd.Flags().StringVar(&exportDest, "dest", "studio-export.zip", "Bundle file to write")
}

// promptFrom joins the positional arguments. With no arguments and a
// non-empty label it asks on the terminal.
func promptFrom(args []string, label string) string {
	p := strings.TrimSpace(strings.Join(args, " "))
	if p == "" && label != "" {
		p = askLine(label)
	}
	return p
}

func templateInputs(args []string) (studio.Inputs, error) {
	in := studio.Inputs{
		View:     studio.ViewTemplates,
		Prompt:   promptFrom(args, "Topic"),
		Duration: durationFlag,
	}
	if templateFlag != "" {
		t, ok := studio.FindTemplate(templateFlag)
		if !ok {
			return in, fmt.Errorf("unknown template %q (see 'studio templates')", templateFlag)
		}
		in.Template = &t
	}
	if err := applyCommon(&in, 0); err != nil {
		return in, err
	}
	return in, nil
}

func photoInputs(mode studio.PhotoMode, args []string, images int) (studio.Inputs, error) {
	in := studio.Inputs{View: studio.ViewPhoto, PhotoMode: mode}
	if mode != studio.PhotoEnhance {
		in.Prompt = promptFrom(args, "Prompt")
	}
	if err := applyCommon(&in, images); err != nil {
		return in, err
	}
	return in, nil
}
