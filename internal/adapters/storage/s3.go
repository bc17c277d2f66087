package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"communityadmin/internal/domain"
)

// S3Config holds configuration for the content bucket.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint for S3-compatible stores (MinIO, R2). Enables path-style addressing.
	Endpoint      string
	PresignExpiry time.Duration
	// PublicBaseURL is prepended to object keys for download links, e.g. a CDN origin.
	PublicBaseURL string
}

type s3Storage struct {
	presigner     *s3.PresignClient
	bucket        string
	expiry        time.Duration
	publicBaseURL string
	now           func() time.Time
}

// NewS3Storage returns an ObjectStorage that hands out presigned PUT URLs for the configured bucket.
func NewS3Storage(cfg S3Config) (domain.ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage needs a bucket")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}

	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &s3Storage{
		presigner:     s3.NewPresignClient(client, s3.WithPresignExpires(cfg.PresignExpiry)),
		bucket:        cfg.Bucket,
		expiry:        cfg.PresignExpiry,
		publicBaseURL: base,
		now:           time.Now,
	}, nil
}

func (s *s3Storage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	issuedAt := s.now()
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign put object: %w", err)
	}
	return req.URL, issuedAt.Add(s.expiry).UTC(), nil
}

func (s *s3Storage) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + strings.Join(segments, "/")
}
