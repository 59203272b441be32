// Package storage issues presigned URLs for spot photos in S3-compatible storage.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofrs/uuid/v5"
)

// Config holds the object storage connection settings.
type Config struct {
	Region    string
	Endpoint  string // base endpoint, e.g. a MinIO address; empty for AWS
	AccessKey string
	SecretKey string
	Bucket    string
}

// Images issues presigned PUT/GET URLs so photo bytes never pass through the
// API server.
type Images struct {
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

// NewImages builds an Images store from config.
func NewImages(ctx context.Context, cfg Config, expiry time.Duration) (*Images, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Images{presign: s3.NewPresignClient(client), bucket: cfg.Bucket, expiry: expiry}, nil
}

// PresignUpload returns a fresh object key and a presigned PUT URL for it.
func (im *Images) PresignUpload(ctx context.Context) (string, string, error) {
	key := newObjectKey()
	req, err := im.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(im.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(im.expiry))
	if err != nil {
		return "", "", err
	}
	return key, req.URL, nil
}

// PresignView returns a presigned GET URL for an existing object key.
func (im *Images) PresignView(ctx context.Context, key string) (string, error) {
	req, err := im.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(im.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(im.expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// newObjectKey partitions keys by date so buckets stay browsable.
func newObjectKey() string {
	now := time.Now().UTC()
	return fmt.Sprintf("spots/%d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), uuid.Must(uuid.NewV4()))
}
