package repomanager

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/documents"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) documents.ObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Options configures an S3-compatible endpoint such as MinIO.
type S3Options struct {
	Region       string
	User         string
	Password     string
	BaseEndpoint string
	Bucket       string
}

// S3RepositoryManager stores documents as objects in one bucket.
type S3RepositoryManager struct {
	documents *documents.S3Repository
}

func NewS3RepositoryManager(ctx context.Context, o S3Options) (*S3RepositoryManager, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.User,     // MINIO_ROOT_USER
			o.Password, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		if o.BaseEndpoint != "" {
			opts.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		opts.UsePathStyle = true
	})

	return &S3RepositoryManager{documents: documents.NewS3Repository(client, o.Bucket)}, nil
}

func (m *S3RepositoryManager) Documents() documents.Repository {
	return m.documents
}

// RunMigrations creates the bucket when missing.
func (m *S3RepositoryManager) RunMigrations(ctx context.Context) error {
	return m.documents.EnsureBucket(ctx)
}

func (m *S3RepositoryManager) Close() error { return nil }
