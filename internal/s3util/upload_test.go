package s3util

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestResultKey(t *testing.T) {
	at := time.Date(2026, 3, 4, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
	tests := []struct {
		name string
		mode studio.Mode
		res  *studio.Result
		want string
	}{
		{"png", studio.ModeGenerate, &studio.Result{Kind: studio.ResultImage, MIMEType: "image/png"}, "generations/2026-03-05/generate/abc.png"},
		{"mp4", studio.ModeVideo, &studio.Result{Kind: studio.ResultVideo, MIMEType: "video/mp4"}, "generations/2026-03-05/video/abc.mp4"},
		{"unknown video", studio.ModeCartoon, &studio.Result{Kind: studio.ResultVideo, MIMEType: "application/x-foo"}, "generations/2026-03-05/cartoon/abc.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultKey("abc", tt.mode, tt.res, at); got != tt.want {
				t.Errorf("ResultKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUploadResult(t *testing.T) {
	client := &fakeS3{}
	res := &studio.Result{Kind: studio.ResultImage, MIMEType: "image/png", Data: []byte("png-bytes")}

	err := UploadResult(context.Background(), client, "bucket", "k.png", res, map[string]string{"mode": "generate"})
	if err != nil {
		t.Fatalf("UploadResult() error = %v", err)
	}
	if aws.ToString(client.input.Bucket) != "bucket" || aws.ToString(client.input.Key) != "k.png" {
		t.Errorf("bucket/key = %q/%q", aws.ToString(client.input.Bucket), aws.ToString(client.input.Key))
	}
	if aws.ToString(client.input.ContentType) != "image/png" {
		t.Errorf("ContentType = %q", aws.ToString(client.input.ContentType))
	}
	if aws.ToInt64(client.input.ContentLength) != int64(len(res.Data)) {
		t.Errorf("ContentLength = %d", aws.ToInt64(client.input.ContentLength))
	}
	if string(client.body) != "png-bytes" {
		t.Errorf("body = %q", client.body)
	}
	if client.input.Metadata["mode"] != "generate" {
		t.Errorf("metadata = %v", client.input.Metadata)
	}
}

func TestUploadResult_Error(t *testing.T) {
	boom := errors.New("access denied")
	client := &fakeS3{err: boom}
	err := UploadResult(context.Background(), client, "b", "k", &studio.Result{MIMEType: "video/mp4"}, nil)
	if !errors.Is(err, boom) {
		t.Errorf("UploadResult() error = %v, want wrapped %v", err, boom)
	}
}

type fakeGetter struct {
	body        string
	contentType string
	length      int64
	err         error
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(f.body)),
		ContentType:   aws.String(f.contentType),
		ContentLength: aws.Int64(f.length),
	}, nil
}

func TestFetchObject(t *testing.T) {
	ctx := context.Background()

	data, ct, err := FetchObject(ctx, &fakeGetter{body: "jpeg", contentType: "image/jpeg", length: 4}, "b", "in/a.jpg", 10)
	if err != nil {
		t.Fatalf("FetchObject() error = %v", err)
	}
	if string(data) != "jpeg" || ct != "image/jpeg" {
		t.Errorf("FetchObject() = %q, %q", data, ct)
	}

	if _, _, err := FetchObject(ctx, &fakeGetter{body: "0123456789ab", length: 12}, "b", "k", 10); err == nil {
		t.Error("expected size limit error from ContentLength")
	}
	if _, _, err := FetchObject(ctx, &fakeGetter{body: "0123456789ab"}, "b", "k", 10); err == nil {
		t.Error("expected size limit error from body")
	}
	if _, _, err := FetchObject(ctx, &fakeGetter{err: errors.New("NoSuchKey")}, "b", "k", 10); err == nil {
		t.Error("expected error for missing object")
	}
}
