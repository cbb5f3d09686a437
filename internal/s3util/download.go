package s3util

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// GetObjectAPI is the subset of the S3 client used for downloads.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// FetchObject reads an object into memory, refusing objects larger than
// maxBytes (zero means no limit). It returns the body and the stored content type.
func FetchObject(ctx context.Context, client GetObjectAPI, bucket, key string, maxBytes int64) ([]byte, string, error) {
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("S3 GetObject %s: %w", key, err)
	}
	defer result.Body.Close()

	if size := aws.ToInt64(result.ContentLength); maxBytes > 0 && size > maxBytes {
		return nil, "", fmt.Errorf("object %s is %d bytes, limit is %d", key, size, maxBytes)
	}

	var body io.Reader = result.Body
	if maxBytes > 0 {
		body = io.LimitReader(result.Body, maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", key, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("object %s exceeds %d bytes", key, maxBytes)
	}

	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Fetched object from S3")
	return data, aws.ToString(result.ContentType), nil
}
