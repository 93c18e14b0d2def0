package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mykitchen/kitchen/internal/errors"
	"github.com/mykitchen/kitchen/internal/middleware"
	"github.com/mykitchen/kitchen/internal/storage"
)

// ImagePresigner issues upload URLs. *storage.S3Storage satisfies it.
type ImagePresigner interface {
	PresignImageUpload(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage ImagePresigner
}

func NewUploadController(storage ImagePresigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignImage returns a presigned PUT URL for a recipe image. The returned
// file_url goes into the recipe's images once the upload succeeds.
// POST /api/v1/uploads/images
func (ctrl *UploadController) PresignImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "presigned URL")
		return
	}

	resp, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) {
			log.Warn("Invalid content type", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": resp.Key,
	})
	c.JSON(http.StatusOK, resp)
}
