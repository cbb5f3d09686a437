package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-creative-studio/internal/auth"
	"github.com/fpang/ai-creative-studio/internal/cli"
	"github.com/fpang/ai-creative-studio/internal/config"
	"github.com/fpang/ai-creative-studio/internal/export"
	"github.com/fpang/ai-creative-studio/internal/gemini"
	"github.com/fpang/ai-creative-studio/internal/media"
	"github.com/fpang/ai-creative-studio/internal/metrics"
	"github.com/fpang/ai-creative-studio/internal/studio"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bundle saved results into a zstd-compressed zip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := exportDirFlag
		if dir == "" {
			dir = outFlag
		}
		manifest, err := export.Bundle(dir, exportDest)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d files)\n", exportDest, len(manifest.Entries))
		return nil
	},
}

func askLine(label string) string {
	return cli.PromptLine(os.Stdin, os.Stderr, label, "")
}

// applyCommon fills the aspect ratio and image slots from the shared flags.
// pick is the number of images to ask for when --pick is set without --image.
func applyCommon(in *studio.Inputs, pick int) error {
	if aspectFlag != "" {
		ratio, err := studio.ParseAspectRatio(aspectFlag)
		if err != nil {
			return err
		}
		in.AspectRatio = ratio
	}

	paths := imageFlags
	if pickFlag && len(paths) == 0 {
		if pick == 0 {
			pick = 1
		}
		for i := 1; i <= pick; i++ {
			p, err := cli.PickImage(fmt.Sprintf("Select image %d", i))
			if err != nil {
				return err
			}
			paths = append(paths, p)
		}
	}
	if len(paths) > 2 {
		return fmt.Errorf("at most two images are supported, got %d", len(paths))
	}

	for i, p := range paths {
		if err := cli.ValidateImagePath(p); err != nil {
			return err
		}
		up, err := media.LoadImage(p)
		if err != nil {
			return err
		}
		slot := &studio.ImageSlot{Name: up.Name, DataURI: up.DataURI}
		if i == 0 {
			in.Image1 = slot
		} else {
			in.Image2 = slot
		}
		log.Debug().
			Str("file", up.Name).
			Int("width", up.Width).
			Int("height", up.Height).
			Bool("resized", up.Resized).
			Msg("Image loaded")
	}
	return nil
}

// newClient builds the provider client, from the key dialog when
// --select-key is set.
func newClient(ctx context.Context, models gemini.Models) (*gemini.Client, error) {
	if !selectKeyFlag {
		return cli.InitStudioClient(ctx, models, validateFlag), nil
	}
	key, err := auth.SelectAPIKey()
	if err != nil {
		return nil, err
	}
	client, err := gemini.New(ctx, key, models)
	if err != nil {
		return nil, err
	}
	if validateFlag {
		if err := auth.ValidateAPIKey(ctx, client.GenAI()); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// submit runs one generation and saves the result into --out.
func submit(cmd *cobra.Command, in studio.Inputs) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	poller := cfg.Poller()
	if timeoutFlag > 0 {
		poller.Timeout = timeoutFlag
	}

	client, err := newClient(ctx, cfg.Models)
	if err != nil {
		return err
	}

	start := time.Now()
	stderr := cmd.ErrOrStderr()
	orch := studio.NewOrchestrator(client,
		studio.WithPoller(poller),
		studio.WithProgress(func(p studio.Progress) {
			fmt.Fprintln(stderr, cli.FormatProgress(time.Since(start), p))
		}),
		studio.WithObserver(metrics.RecordOutcome),
	)

	// Resolving a key above is the credential selection for the video views.
	session := studio.SessionFor(in, true)
	out, err := orch.Submit(ctx, session)
	if err != nil {
		return err
	}
	if out.Error != nil {
		fmt.Fprintln(stderr, out.Error.Message)
		return errors.New(out.Error.Message)
	}

	dir, err := cli.ResolveOutputDir(outFlag)
	if err != nil {
		return err
	}
	path, err := media.SaveResult(dir, out.ID, out.Result)
	if err != nil {
		return err
	}

	log.Info().
		Str("id", out.ID).
		Str("mode", string(out.Mode)).
		Str("size", cli.FormatBytes(len(out.Result.Data))).
		Str("elapsed", cli.FormatDurationShort(out.Duration)).
		Msg("Saved result")
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
