// Package main provides the Lambda entry point for one studio generation.
//
// Each invocation runs a single mode: it resolves any input images from the
// event or the media bucket, drives the orchestrator (polling Veo for the
// video modes), uploads the result to S3, records it in DynamoDB and
// announces it on EventBridge.
//
// Memory: 1 GB
// Timeout: 15 minutes
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/config"
	"github.com/fpang/ai-creative-studio/internal/gemini"
	"github.com/fpang/ai-creative-studio/internal/lambdaboot"
	"github.com/fpang/ai-creative-studio/internal/logging"
)

// bootstrap runs the cold-start setup and returns the handler.
func bootstrap() *generationHandler {
	initStart := time.Now()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	aws := lambdaboot.InitAWS()
	s3s := lambdaboot.InitS3(aws.Config, cfg.MediaBucket)
	records := lambdaboot.InitDynamoOptional(aws.Config, cfg.DynamoTable, cfg.RecordTTL)
	if err := lambdaboot.LoadGeminiKey(context.Background(), aws.SSM, cfg.SSMKeyParam); err != nil {
		log.Fatal().Err(err).Msg("Failed to load Gemini API key")
	}

	client, err := gemini.New(context.Background(), os.Getenv("GEMINI_API_KEY"), cfg.Models)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	h := &generationHandler{
		provider: client,
		poller:   cfg.Poller(),
		objects:  s3s.Client,
		bucket:   s3s.Bucket,
		presign:  presignWith(s3s.Presigner, s3s.Bucket),
		bus:      aws.EventBridge,
		busName:  cfg.EventBus,
	}
	if records != nil {
		h.records = records
	}

	lambdaboot.StartupLog("studio-lambda", initStart).
		S3Bucket(s3s.Bucket).
		DynamoTable(cfg.DynamoTable).
		SSMParam(cfg.SSMKeyParam).
		EventBus(cfg.EventBus).
		Model("image", cfg.Models.Image).
		Model("edit", cfg.Models.Edit).
		Model("video", cfg.Models.Video).
		Feature("records", records != nil).
		Config("pollInterval", cfg.PollInterval.String()).
		Config("pollTimeout", cfg.PollTimeout.String()).
		Log()
	return h
}

func main() {
	lambda.Start(bootstrap().handle)
}
