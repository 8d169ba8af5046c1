package storage

import (
	"bytes"
	"context"
	"errors"
	"time"

	"fitcoach/backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// objectPutter is the subset of *s3.Client used by the archive.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Archive implements PlanArchive using an S3-compatible backend.
type s3Archive struct {
	client     objectPutter
	bucketName string
	newID      func() uuid.UUID
}

// NewS3Archive creates a PlanArchive writing to the configured bucket.
func NewS3Archive(ctx context.Context, cfg config.S3Config) (PlanArchive, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is required for the plan archive")
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Errorf("failed to load AWS SDK config for S3: %s", err)
		return nil, err
	}

	// Path-style addressing for S3-compatible services like MinIO
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	log.Infof("S3 plan archive initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)
	return newS3Archive(s3Client, cfg.BucketName), nil
}

func newS3Archive(client objectPutter, bucket string) *s3Archive {
	return &s3Archive{
		client:     client,
		bucketName: bucket,
		newID:      uuid.New,
	}
}

func (s *s3Archive) ArchiveRawPlan(ctx context.Context, userID int64, startDate time.Time, raw []byte) (string, error) {
	key := PlanObjectKey(userID, startDate, s.newID())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Errorf("failed to put object '%s' into bucket '%s': %s", key, s.bucketName, err)
		return "", err
	}

	log.Debugf("archived raw plan '%s' in bucket '%s'", key, s.bucketName)
	return key, nil
}
