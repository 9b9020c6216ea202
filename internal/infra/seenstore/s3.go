package seenstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"blog-notifier/internal/resilience/retry"
	"blog-notifier/internal/usecase/seen"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config configures the S3 backend. Region, profile and credentials fall
// back to the standard AWS configuration chain.
type S3Config struct {
	Bucket       string
	Key          string
	Region       string
	Profile      string
	UsePathStyle bool
}

// s3API is the subset of *s3.Client the backend uses.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend keeps the document as a single S3 object.
type S3Backend struct {
	client      s3API
	bucket      string
	key         string
	retryConfig retry.Config
}

var _ seen.Backend = (*S3Backend)(nil)

// NewS3Backend loads the AWS configuration and creates an S3Backend.
func NewS3Backend(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Backend(client, cfg.Bucket, cfg.Key), nil
}

func newS3Backend(client s3API, bucket, key string) *S3Backend {
	if key == "" {
		key = DefaultGistFilename
	}
	return &S3Backend{
		client:      client,
		bucket:      bucket,
		key:         key,
		retryConfig: retry.SeenStoreConfig(),
	}
}

// Name implements seen.Backend.
func (b *S3Backend) Name() string { return "s3" }

// Get implements seen.Backend.
func (b *S3Backend) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry.WithBackoff(ctx, b.retryConfig, func() error {
		out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(b.key),
		})
		if err != nil {
			if isS3NotFound(err) {
				return seen.ErrDocumentNotFound
			}
			return fmt.Errorf("get s3://%s/%s: %w", b.bucket, b.key, err)
		}
		defer func() { _ = out.Body.Close() }()

		data, err = io.ReadAll(out.Body)
		if err != nil {
			return fmt.Errorf("read s3 object body: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements seen.Backend.
func (b *S3Backend) Put(ctx context.Context, data []byte) error {
	return retry.WithBackoff(ctx, b.retryConfig, func() error {
		_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(b.bucket),
			Key:         aws.String(b.key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("put s3://%s/%s: %w", b.bucket, b.key, err)
		}
		return nil
	})
}

// isS3NotFound reports whether err means the object does not exist.
func isS3NotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
