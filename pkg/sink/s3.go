package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/noorform/pkg/form"
)

// ObjectPutter is the part of *s3.Client an S3Sink needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink stores each submission as a JSON object in an S3 bucket.
//
// Keys have the form prefix/form/20060102T150405Z-id.json.
type S3Sink struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Sink creates a new S3 submission sink.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2, or anything with PutObject
//   - bucket: S3 bucket name
//   - prefix: Key prefix for submissions (e.g., "submissions")
func NewS3Sink(client ObjectPutter, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// NewS3Client builds an S3 client from the default AWS credential chain.
// An empty region keeps the region from the environment.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Key returns the object key of sub.
func (s *S3Sink) Key(sub Submission) string {
	name := sub.ReceivedAt.UTC().Format("20060102T150405Z") + "-" + sub.ID + ".json"
	return path.Join(s.prefix, sub.Form, name)
}

// Store uploads sub.
func (s *S3Sink) Store(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	metadata := map[string]string{
		"form":        sub.Form,
		"submit-time": sub.ReceivedAt.UTC().Format(time.RFC3339),
	}
	if sub.Locale != "" {
		metadata["locale"] = sub.Locale
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(sub)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata:    metadata,
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}

// For returns the SubmitFunc of formName.
func (s *S3Sink) For(formName string) form.SubmitFunc {
	return Bind(s, formName)
}
