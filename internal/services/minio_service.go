package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"movie-catalog/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

var posterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// PresignedUpload is returned to clients uploading a poster directly to the bucket.
type PresignedUpload struct {
	PresignedURL string    `json:"presigned_url"`
	PublicURL    string    `json:"public_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MinIOService stores poster images and implements PosterStore.
type MinIOService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
	logger    *logrus.Logger
}

func NewMinIOService(cfg *config.MinIOConfig, logger *logrus.Logger) (*MinIOService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized")

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &MinIOService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		expiry:    expiry,
		logger:    logger,
	}, nil
}

// EnsureBucket creates the poster bucket with a public read policy.
func (s *MinIOService) EnsureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// PosterObjectName builds a unique object name that keeps the original extension.
func PosterObjectName(filename string) (string, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	ext := strings.ToLower(filepath.Ext(base))
	if !posterExtensions[ext] {
		return "", NewValidationError("filename", "Poster must be a .jpg, .jpeg, .png or .webp file.")
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" {
		name = "poster"
	}

	return fmt.Sprintf("posters/%s_%s%s", name, uuid.New().String()[:8], ext), nil
}

func (s *MinIOService) GeneratePresignedURL(ctx context.Context, filename string) (*PresignedUpload, error) {
	objectPath, err := PosterObjectName(filename)
	if err != nil {
		return nil, err
	}

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucket, objectPath, s.expiry)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presigned URL")
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename":   filename,
		"objectPath": objectPath,
		"expiry":     s.expiry,
	}).Info("Generated presigned URL")

	return &PresignedUpload{
		PresignedURL: presignedURL.String(),
		PublicURL:    s.publicURL + "/" + objectPath,
		ExpiresAt:    time.Now().UTC().Add(s.expiry),
	}, nil
}

// OwnsURL reports whether url points into the poster bucket.
func (s *MinIOService) OwnsURL(url string) bool {
	return s.publicURL != "" && strings.HasPrefix(url, s.publicURL+"/")
}

// DeleteFile accepts either a public poster URL or a bare object path.
func (s *MinIOService) DeleteFile(ctx context.Context, objectPath string) error {
	if s.OwnsURL(objectPath) {
		objectPath = strings.TrimPrefix(objectPath, s.publicURL+"/")
	}
	objectPath = strings.TrimPrefix(objectPath, s.bucket+"/")

	err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.WithError(err).WithField("objectPath", objectPath).Error("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.WithField("objectPath", objectPath).Info("Poster deleted")
	return nil
}

// Ping checks the bucket is reachable.
func (s *MinIOService) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
