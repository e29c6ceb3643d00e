// Package imagestore removes auction images kept in an external object store.
package imagestore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:generate mockgen -source=imagestore.go -destination=mock_imagestore.go -package=imagestore

// ImageStore deletes stored objects by key. Deleting a missing key is not an error.
type ImageStore interface {
	Delete(ctx context.Context, key string) error
}

// NopStore is used when no object store is configured
type NopStore struct{}

func (NopStore) Delete(context.Context, string) error { return nil }

// S3Config holds the settings of an S3-compatible backend such as MinIO
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store deletes auction images from a bucket
type S3Store struct {
	client objectDeleter
	bucket string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Store builds an S3 client with static credentials. A non-empty Endpoint
// switches to path-style addressing for MinIO and similar servers.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Delete removes the object stored under key
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", s.bucket, key, err)
	}
	return nil
}
