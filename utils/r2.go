// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Archiver uploads season audit artifacts to an R2 bucket. It satisfies
// the reward service's SnapshotArchiver.
type R2Archiver struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

// NewR2Archiver builds the client from the environment. Returns nil (no
// archiving) when the bucket is not configured, so local runs work without
// R2 credentials.
func NewR2Archiver() (*R2Archiver, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		return nil, nil
	}

	cdnBaseURL := os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &R2Archiver{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		cdnBaseURL: cdnBaseURL,
	}, nil
}

// ArchiveSeason uploads a season's final standings as JSON and returns the
// public URL. Object keys are dated so repeated closes never overwrite an
// earlier archive.
func (a *R2Archiver) ArchiveSeason(seasonID string, payload []byte) (string, error) {
	key := fmt.Sprintf("seasons/%s/standings-%s.json", seasonID, time.Now().UTC().Format("20060102T150405Z"))

	_, err := a.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload season archive: %w", err)
	}

	return fmt.Sprintf("%s/%s", a.cdnBaseURL, key), nil
}
