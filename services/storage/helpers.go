package storage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/services/storage/aws_client"
)

// NewDocumentStorageService creates a StorageService for the health document
// bucket. A custom endpoint switches to path-style addressing, which covers
// S3-compatible providers.
func NewDocumentStorageService(cfg *config.StorageConfig) interfaces.StorageService {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	s3Client := aws_client.NewS3Client(awsConfig)

	return NewStorageService(s3Client, StorageConfig{
		BucketName:    cfg.DocumentBucket,
		PublicBaseURL: cfg.PublicBaseURL,
	})
}
