package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/maintenance-orders/internal/config"
)

// Archive keeps a copy of every generated report.
type Archive interface {
	Store(ctx context.Context, key string, body io.Reader, size int64) error
}

func ArchiveKey(now time.Time, id string) string {
	return fmt.Sprintf("reports/%04d/%02d/%s.pdf", now.Year(), int(now.Month()), id)
}

type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive returns a nil Archive when no bucket is configured.
func NewS3Archive(cfg config.ReportConfig) Archive {
	if cfg.Bucket == "" {
		return nil
	}

	opts := s3.Options{Region: cfg.Region}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Archive{client: s3.New(opts), bucket: cfg.Bucket}
}

func (a *S3Archive) Store(ctx context.Context, key string, body io.Reader, size int64) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
