// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// R2Client uploads objects to a Cloudflare R2 bucket through the S3 API.
type R2Client struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

func NewR2Client(ctx context.Context, cfg R2Config) (*R2Client, error) {
	if cfg.AccountID == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("R2 account id and bucket are required")
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	cdnBaseURL := strings.TrimRight(cfg.CDNBaseURL, "/")
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint + "/" + cfg.Bucket
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Client{client: client, bucket: cfg.Bucket, cdnBaseURL: cdnBaseURL}, nil
}

// Upload stores body under key and returns its public URL.
func (r *R2Client) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return fmt.Sprintf("%s/%s", r.cdnBaseURL, key), nil
}
