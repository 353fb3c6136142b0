package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dineguide/dineguide/internal/model"
)

// S3API is the part of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3 bucket.
type S3Store struct {
	api    S3API
	bucket string
}

// NewS3Store loads the default AWS credential chain for region.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3StoreWithAPI(s3.NewFromConfig(cfg), bucket), nil
}

func NewS3StoreWithAPI(api S3API, bucket string) *S3Store {
	return &S3Store{api: api, bucket: bucket}
}

func (s *S3Store) Put(ctx context.Context, prefix string, u model.Upload) (model.ImageRef, error) {
	key, contentType, err := assetKey(prefix, u)
	if err != nil {
		return model.ImageRef{}, err
	}
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(u.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return model.ImageRef{}, fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return model.ImageRef{AssetID: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, assetID string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(assetID),
	})
	if err != nil {
		return fmt.Errorf("delete s3://%s/%s: %w", s.bucket, assetID, err)
	}
	return nil
}

// PublicBaseURL is the virtual-hosted bucket URL used when no CDN base is configured.
func PublicBaseURL(bucket, region string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}
