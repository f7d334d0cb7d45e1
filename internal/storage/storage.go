// internal/storage/storage.go
package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marigoldshop/catalog-admin/internal/config"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

// Uploader stores catalog images in S3 and returns hosted URLs. Without AWS
// credentials it falls back to a local URL so development needs no bucket.
type Uploader struct {
	s3Client *s3.S3
	cfg      *config.Config
	log      *logrus.Entry
}

func NewUploader(cfg *config.Config) (*Uploader, error) {
	log := logrus.WithField("component", "storage")

	if cfg.AWS.AccessKeyID == "" {
		log.Warn("no AWS credentials configured, uploads use local URLs")
		return &Uploader{cfg: cfg, log: log}, nil
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

	return &Uploader{
		s3Client: s3.New(sess),
		cfg:      cfg,
		log:      log,
	}, nil
}

// UploadImage validates and stores one image, returning its hosted URL.
func (u *Uploader) UploadImage(data []byte, filename, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image file")
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("image size %d bytes exceeds maximum %d bytes", len(data), maxImageSize)
	}
	if !isImage(data) {
		return "", fmt.Errorf("file is not a supported image format")
	}

	key := u.objectKey(filename)

	if u.s3Client == nil {
		url := fmt.Sprintf("http://%s:%s/uploads/%s", u.cfg.Server.Host, u.cfg.Server.Port, key)
		u.log.WithField("key", key).Debug("stored image locally")
		return url, nil
	}

	_, err := u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := u.hostedURL(key)
	u.log.WithField("url", url).Info("image uploaded")
	return url, nil
}

func (u *Uploader) objectKey(originalName string) string {
	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("products/%s_%s%s", timestamp, uuid.NewString()[:8], ext)
}

func (u *Uploader) hostedURL(key string) string {
	if u.cfg.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", u.cfg.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		u.cfg.AWS.S3Bucket, u.cfg.AWS.Region, key)
}

// isImage checks the file signature for the supported formats.
func isImage(data []byte) bool {
	// JPEG
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return true
	}
	// PNG
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return true
	}
	// GIF
	if len(data) >= 6 && (string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a") {
		return true
	}
	// WebP
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return true
	}
	return false
}
