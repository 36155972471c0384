// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/bankhub/credit-backend/internal/config"
)

// StorageService archives generated report documents to S3. Without
// credentials it degrades to a no-op so local development does not require
// an AWS account.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// Enabled reports whether uploads actually go anywhere.
func (s *StorageService) Enabled() bool {
	return s.s3Client != nil
}

// UploadReport stores a rendered PDF under reports/, keyed by date and a
// random suffix, and returns the object location.
func (s *StorageService) UploadReport(name string, content []byte) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("report storage is not configured")
	}

	key := fmt.Sprintf("reports/%s/%s_%s.pdf",
		time.Now().Format("2006-01-02"), name, uuid.New().String()[:8])

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload report to S3: %w", err)
	}

	return &UploadResult{
		Key:  key,
		URL:  fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key),
		Size: int64(len(content)),
	}, nil
}
