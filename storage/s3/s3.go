// Package s3 is an S3-compatible storage.Service with presigned URLs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/zoobzio/dryer/storage"
)

// Config options for the S3 service.
type Config struct {
	Region          string // AWS region, default us-east-1
	Bucket          string // S3 bucket name
	AccessKeyID     string // Static credentials; empty uses the default chain
	SecretAccessKey string
	Endpoint        string // Optional endpoint for S3-compatible services
	UsePathStyle    bool   // Path-style addressing, required by most S3-compatible services
}

// Service stores objects in one bucket.
type Service struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New creates a client for cfg. No request is made.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &Service{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Name returns "s3".
func (s *Service) Name() string {
	return "s3"
}

// Upload streams r to the bucket with the multipart uploader.
func (s *Service) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := manager.NewUploader(s.client).Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// Download opens the object body.
func (s *Service) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	return out.Body, nil
}

// Delete removes the object.
func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// Exists reports whether the object exists.
func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get object metadata: %w", err)
	}
	return true, nil
}

// URL returns a presigned GET URL.
func (s *Service) URL(ctx context.Context, key string, opts storage.URLOptions) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	disposition := opts.Disposition
	if disposition == "" {
		disposition = "inline"
	}
	if opts.Filename != "" {
		disposition = fmt.Sprintf("%s; filename=%q", disposition, opts.Filename)
	}
	input.ResponseContentDisposition = aws.String(disposition)
	if opts.ContentType != "" {
		input.ResponseContentType = aws.String(opts.ContentType)
	}

	expires := presignExpiry(opts)
	req, err := s.presign.PresignGetObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return req.URL, nil
}

var _ storage.Service = (*Service)(nil)

func presignExpiry(opts storage.URLOptions) time.Duration {
	if opts.ExpiresIn == 0 {
		return storage.DefaultURLExpiry
	}
	return opts.ExpiresIn
}
