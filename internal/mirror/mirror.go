// Package mirror keeps a copy of every built package in an S3-compatible
// bucket, so a failed upload can be replayed by hand.
package mirror

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/talkpublisher/internal/common"
)

// Mirror stores the file at localPath under name.
type Mirror interface {
	Store(ctx context.Context, name, localPath string) error
}

// Nop is used when no bucket is configured.
type Nop struct{}

func (Nop) Store(context.Context, string, string) error { return nil }

// Config describes the bucket. Empty credentials fall back to the default
// AWS credential chain.
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Prefix       string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Mirror struct {
	api    objectPutter
	bucket string
	prefix string
}

func NewS3Mirror(ctx context.Context, c Config) (*S3Mirror, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Mirror{api: api, bucket: c.Bucket, prefix: c.Prefix}, nil
}

func (m *S3Mirror) Store(ctx context.Context, name, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMirrorFailed, err)
	}
	defer f.Close()

	key := path.Join(m.prefix, name)
	_, err = m.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("%w: put s3://%s/%s: %v", common.ErrMirrorFailed, m.bucket, key, err)
	}
	return nil
}
