package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresignImageUpload(t *testing.T) {
	s := NewS3Storage("eu-west-1", "bucket", "AKIDEXAMPLE", "secret", "")

	resp, err := s.PresignImageUpload(context.Background(), "Plov.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, RecipeImageFolder+"/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".jpg"))
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/"+resp.Key, resp.FileURL)
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
}

func TestPresignImageUpload_RejectsNonImages(t *testing.T) {
	s := NewS3Storage("eu-west-1", "bucket", "AKIDEXAMPLE", "secret", "")

	_, err := s.PresignImageUpload(context.Background(), "notes.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrContentTypeNotAllowed)
}

func TestPresignImageUpload_PresignFailure(t *testing.T) {
	s := &S3Storage{
		presign: func(ctx context.Context, in *s3.PutObjectInput) (string, error) {
			return "", errors.New("no credentials")
		},
		bucket: "bucket",
		region: "eu-west-1",
	}

	_, err := s.PresignImageUpload(context.Background(), "a.png", "image/png")
	assert.Error(t, err)
}

func TestFileURL_UsesBaseURL(t *testing.T) {
	s := NewS3Storage("eu-west-1", "bucket", "AKIDEXAMPLE", "secret", "https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/recipes/x.png", s.FileURL("recipes/x.png"))
}
