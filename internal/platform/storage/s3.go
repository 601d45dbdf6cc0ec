package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"estate_leads_backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used here.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores files in a bucket. S3_ENDPOINT switches to path-style
// addressing for S3 compatible services.
type S3Storage struct {
	client        S3API
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.StoragePublicBaseURL
	if base == "" || strings.HasPrefix(base, "/") {
		base = bucketURL(cfg)
	}
	logger.Info("S3 storage initialized", zap.String("bucket", cfg.S3Bucket), zap.String("region", cfg.S3Region))
	return NewS3StorageWithClient(client, cfg.S3Bucket, base, logger), nil
}

// NewS3StorageWithClient wires an existing client.
func NewS3StorageWithClient(client S3API, bucket, publicBaseURL string, logger *zap.Logger) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicBaseURL: publicBaseURL, logger: logger}
}

func bucketURL(cfg *config.Config) string {
	if cfg.S3Endpoint != "" {
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

func (s *S3Storage) Put(ctx context.Context, dir, filename, contentType string, body io.Reader, size int64) (Object, error) {
	if body == nil {
		return Object{}, fmt.Errorf("body cannot be nil")
	}
	key, err := objectKey(dir, filename, contentType)
	if err != nil {
		return Object{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to upload object", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return Object{}, fmt.Errorf("put object %s: %w", key, err)
	}
	return Object{Key: key, URL: joinURL(s.publicBaseURL, key), Size: size, ContentType: contentType}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var notFound *types.NoSuchKey
	if err != nil && !errors.As(err, &notFound) {
		s.logger.Error("Failed to delete object", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
