// Package filestore stores trove file attachments in an S3-compatible
// backend. Clients never stream file bytes through the server: they receive
// short-lived presigned URLs and talk to object storage directly.
package filestore

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mpetrovs/trove/internal/server/config"
)

// Storage issues presigned URLs for trove file attachments.
type Storage interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Storage implements Storage against any S3-compatible endpoint
// (AWS, MinIO, ...), using static credentials from the server config.
type S3Storage struct {
	user     string
	password string
	bucket   string
	region   string
	endpoint string
}

func NewS3Storage(cfg *config.Config) *S3Storage {
	return &S3Storage{
		user:     cfg.S3RootUser,
		password: cfg.S3RootPassword,
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: cfg.S3BaseEndpoint,
	}
}

func (s *S3Storage) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.user,
			s.password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns a presigned PUT URL for uploading the object at key.
func (s *S3Storage) PresignPut(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignGet returns a presigned GET URL for downloading the object at key.
func (s *S3Storage) PresignGet(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
