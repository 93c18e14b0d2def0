package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mykitchen/kitchen/internal/storage"
)

type fakePresigner struct {
	err error
}

func (f *fakePresigner) PresignImageUpload(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error) {
	if err := storage.ValidateContentType(contentType, storage.ImageContentTypes); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &storage.PresignedURLResponse{
		UploadURL: "https://upload.example.com/" + filename,
		FileURL:   "https://cdn.example.com/recipes/" + filename,
		Key:       "recipes/" + filename,
		ExpiresAt: time.Now().Add(storage.PresignExpiry),
	}, nil
}

func TestUploadController_PresignImage(t *testing.T) {
	tests := []struct {
		name       string
		presigner  *fakePresigner
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"ok", &fakePresigner{}, map[string]interface{}{"filename": "a.png", "content_type": "image/png"}, http.StatusOK, ""},
		{"not an image", &fakePresigner{}, map[string]interface{}{"filename": "a.pdf", "content_type": "application/pdf"}, http.StatusBadRequest, "UPLOAD_INVALID_FILE_TYPE"},
		{"missing filename", &fakePresigner{}, map[string]interface{}{"content_type": "image/png"}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
		{"presign failure", &fakePresigner{err: fmt.Errorf("sign: %w", errors.New("no creds"))}, map[string]interface{}{"filename": "a.png", "content_type": "image/png"}, http.StatusInternalServerError, "UPLOAD_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupControllerTest(t)
			env.router.POST("/uploads/images", NewUploadController(tt.presigner).PresignImage)

			w, resp := env.do(t, http.MethodPost, "/uploads/images", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, resp["error"])
			} else {
				assert.Equal(t, "https://cdn.example.com/recipes/a.png", resp["file_url"])
			}
		})
	}
}
