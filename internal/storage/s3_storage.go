package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mykitchen/kitchen/pkg/logger"
)

const (
	RecipeImageFolder = "recipes"
	PresignExpiry     = 15 * time.Minute
)

var ErrContentTypeNotAllowed = errors.New("content type not allowed")

// ImageContentTypes are the uploads accepted for recipe images.
var ImageContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type S3Storage struct {
	presign func(ctx context.Context, in *s3.PutObjectInput) (string, error)
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		// Default credential chain: environment, shared config, instance role
		cfg, err = config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = aws.Config{Region: region}
		}
	}

	presignClient := s3.NewPresignClient(s3.NewFromConfig(cfg))

	return &S3Storage{
		presign: func(ctx context.Context, in *s3.PutObjectInput) (string, error) {
			req, err := presignClient.PresignPutObject(ctx, in, s3.WithPresignExpires(PresignExpiry))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// PresignImageUpload returns a PUT URL for a new recipe image and the public
// URL the image will have once uploaded.
func (s *S3Storage) PresignImageUpload(ctx context.Context, filename, contentType string) (*PresignedURLResponse, error) {
	if err := ValidateContentType(contentType, ImageContentTypes); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", RecipeImageFolder, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	uploadURL, err := s.presign(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: uploadURL,
		FileURL:   s.FileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(PresignExpiry),
	}, nil
}

// FileURL is the public URL of key: the CDN base when configured, otherwise
// the bucket's virtual-hosted URL.
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
}
