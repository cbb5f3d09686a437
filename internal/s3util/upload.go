// Package s3util stores generation results in S3 and hands out presigned
// download links for them.
package s3util

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/media"
	"github.com/fpang/ai-creative-studio/internal/studio"
)

// DefaultURLExpiry is how long presigned result links stay valid.
const DefaultURLExpiry = 24 * time.Hour

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ResultKey is the object key for a generation:
// generations/<yyyy-mm-dd>/<mode>/<id><ext>.
func ResultKey(id string, mode studio.Mode, res *studio.Result, at time.Time) string {
	return fmt.Sprintf("generations/%s/%s/%s%s",
		at.UTC().Format("2006-01-02"), mode, id, media.ExtensionFor(res.MIMEType, res.Kind))
}

// UploadResult writes a generation result to bucket under key.
func UploadResult(ctx context.Context, client PutObjectAPI, bucket, key string, res *studio.Result, metadata map[string]string) error {
	log.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int("bytes", len(res.Data)).
		Msg("Uploading result to S3")

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(res.Data),
		ContentType:   aws.String(res.MIMEType),
		ContentLength: aws.Int64(int64(len(res.Data))),
		Metadata:      metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to upload result to S3: %w", err)
	}

	log.Info().Str("key", key).Msg("Result uploaded to S3")
	return nil
}

// GeneratePresignedURL creates a pre-signed GET URL for an S3 object.
func GeneratePresignedURL(ctx context.Context, presignClient *s3.PresignClient, bucket, key string, expiry time.Duration) (string, error) {
	result, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket, Key: &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign GetObject: %w", err)
	}
	return result.URL, nil
}
