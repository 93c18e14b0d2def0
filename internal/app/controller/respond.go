package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mykitchen/kitchen/internal/errors"
	"github.com/mykitchen/kitchen/internal/middleware"
)

// respondError writes the parsed error response and logs err at a level
// matching its status.
func respondError(c *gin.Context, err error, context string, fields map[string]interface{}) {
	log := middleware.GetLoggerFromContext(c)
	info := apperrors.ParseAndRespond(c, err, context)

	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["code"] = info.Code

	if info.Status >= http.StatusInternalServerError {
		log.Error("Failed to "+context, err, fields)
	} else {
		fields["error"] = err.Error()
		log.Warn("Rejected "+context, fields)
	}
}

func invalidRequest(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromContext(c).Warn("Invalid "+what+" request", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
}
