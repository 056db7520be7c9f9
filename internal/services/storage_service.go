// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/restitch/restitch-backend/internal/config"
)

// StorageService uploads product images to S3. Without AWS credentials it
// falls back to a local-development URL scheme.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// NewStorageService always returns a usable service: without AWS credentials,
// or when the session cannot be built, it serves local-development URLs.
func NewStorageService(config *config.Config) *StorageService {
	if config.AWS.AccessKeyID == "" {
		return &StorageService{config: config}
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to create AWS session, falling back to local storage")
		return &StorageService{config: config}
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}
}

func (s *StorageService) UploadProductImage(file multipart.File, header *multipart.FileHeader, productID uuid.UUID) (*UploadResult, error) {
	if header.Size > maxImageSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, maxImageSize)
	}

	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedType := range allowedImageTypes {
		if fileExt == allowedType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %s is not allowed", fileExt)
	}

	key := fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), fileExt)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, contentType)
	}

	return s.uploadToLocal(fileBytes, key, contentType)
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	url := fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key)

	return &UploadResult{
		URL:      url,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(key string) error {
	if s.s3Client == nil {
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// KeyFromURL inverts the URL schemes this service hands out, so a previously
// stored image URL can be deleted when it is replaced. Foreign URLs yield
// ok=false and are left alone.
func (s *StorageService) KeyFromURL(url string) (string, bool) {
	prefixes := []string{
		fmt.Sprintf("http://localhost:%s/uploads/", s.config.Server.Port),
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.config.AWS.S3Bucket, s.config.AWS.Region),
	}
	if s.config.AWS.CloudFrontURL != "" {
		prefixes = append(prefixes, strings.TrimRight(s.config.AWS.CloudFrontURL, "/")+"/")
	}

	for _, prefix := range prefixes {
		if key := strings.TrimPrefix(url, prefix); key != url && key != "" {
			return key, true
		}
	}

	return "", false
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.AWS.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
