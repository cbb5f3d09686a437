// Package lambdaboot provides shared Lambda cold-start bootstrap logic.
//
// The studio Lambda needs AWS config, S3, DynamoDB, EventBridge, an SSM
// parameter fetch for the Gemini key, and startup logging. This package
// keeps those init steps short and composable.
package lambdaboot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/logging"
	"github.com/fpang/ai-creative-studio/internal/store"
)

// AWSClients holds the core AWS SDK clients used by the Lambda.
type AWSClients struct {
	Config      aws.Config
	SSM         *ssm.Client
	EventBridge *eventbridge.Client
}

// S3Clients holds S3 client, presigner, and bucket name.
type S3Clients struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
}

// ParameterAPI is the subset of the SSM client used to fetch the key.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config:      cfg,
		SSM:         ssm.NewFromConfig(cfg),
		EventBridge: eventbridge.NewFromConfig(cfg),
	}
}

// InitS3 creates an S3 client and presigner for bucket. Fatals if bucket is
// empty.
func InitS3(cfg aws.Config, bucket string) S3Clients {
	if bucket == "" {
		log.Fatal().Msg("Media bucket name is required (MEDIA_BUCKET_NAME)")
	}
	client := s3.NewFromConfig(cfg)
	return S3Clients{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
	}
}

// InitDynamoOptional creates a DynamoDB generation store if tableName is set.
// Returns nil (with a warning) if not configured.
func InitDynamoOptional(cfg aws.Config, tableName string, ttl time.Duration) *store.DynamoStore {
	if tableName == "" {
		log.Warn().Msg("DynamoDB table not set, generation records disabled")
		return nil
	}
	return store.NewDynamoStore(dynamodb.NewFromConfig(cfg), tableName, ttl)
}

// LoadGeminiKey fetches the Gemini API key from SSM Parameter Store unless
// GEMINI_API_KEY is already set, and exports it into the environment.
func LoadGeminiKey(ctx context.Context, client ParameterAPI, paramName string) error {
	if os.Getenv("GEMINI_API_KEY") != "" {
		return nil
	}
	ssmStart := time.Now()
	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("read API key from SSM %s: %w", paramName, err)
	}
	if result.Parameter == nil || aws.ToString(result.Parameter.Value) == "" {
		return fmt.Errorf("SSM parameter %s is empty", paramName)
	}
	os.Setenv("GEMINI_API_KEY", aws.ToString(result.Parameter.Value))
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Gemini API key loaded from SSM")
	return nil
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
