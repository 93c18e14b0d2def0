package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/identity"
	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/pkg/identitytoolkit"
	"github.com/mykitchen/kitchen/pkg/util"
)

// ErrorInfo is the client-facing view of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

type sentinel struct {
	err  error
	info ErrorInfo
}

// Ordered: the first match wins.
var sentinels = []sentinel{
	{service.ErrRecipeNotFound, ErrorInfo{http.StatusNotFound, RecipeNotFound, "Recipe not found", nil}},
	{service.ErrCartEntryNotFound, ErrorInfo{http.StatusNotFound, CartEntryNotFound, "Recipe is not in the cart", nil}},
	{service.ErrNothingStaged, ErrorInfo{http.StatusConflict, CartNothingStaged, "No recipe is staged", nil}},
	{service.ErrInvalidQuantity, ErrorInfo{http.StatusBadRequest, CartInvalidQuantity, "Quantity must be at least 1", nil}},
	{service.ErrEmptyValue, ErrorInfo{http.StatusBadRequest, ValidationEmptyValue, "Value must not be empty", nil}},
	{service.ErrDuplicateValue, ErrorInfo{http.StatusBadRequest, ValidationDuplicate, "Value is already present", nil}},
	{service.ErrNotSignedIn, ErrorInfo{http.StatusUnauthorized, AuthNotSignedIn, "Not signed in", nil}},
	{identity.ErrEmailAlreadyExists, ErrorInfo{http.StatusConflict, AuthEmailAlreadyExists, "Email is already registered", nil}},
	{identity.ErrInvalidCredentials, ErrorInfo{http.StatusUnauthorized, AuthInvalidCredentials, "Invalid email or password", nil}},
	{identity.ErrWeakPassword, ErrorInfo{http.StatusBadRequest, AuthWeakPassword, "Password must be at least 6 characters", nil}},
	{identity.ErrInvalidToken, ErrorInfo{http.StatusUnauthorized, AuthTokenInvalid, "Invalid or expired token", nil}},
	{identity.ErrUnsupported, ErrorInfo{http.StatusNotImplemented, AuthUnsupported, "Sign-in method not available", nil}},
	{util.ErrExpiredToken, ErrorInfo{http.StatusUnauthorized, AuthTokenExpired, "Session expired, sign in again", nil}},
	{util.ErrInvalidToken, ErrorInfo{http.StatusUnauthorized, AuthTokenInvalid, "Invalid or expired token", nil}},
	{store.ErrStale, ErrorInfo{http.StatusConflict, CartStale, "A newer request replaced this one", nil}},
	{store.ErrClosed, ErrorInfo{http.StatusServiceUnavailable, InternalUnavailable, "Service is shutting down", nil}},
	{repository.ErrNotFound, ErrorInfo{http.StatusNotFound, ResourceNotFound, "", nil}},
	{gorm.ErrRecordNotFound, ErrorInfo{http.StatusNotFound, ResourceNotFound, "", nil}},
}

// ParseError maps err to a status, code and message. context names the
// operation ("create recipe") and shapes the fallback messages.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidInput,
			Message: "Some fields are invalid",
			Fields:  verr.Fields,
		}
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			info := s.info
			if info.Message == "" {
				info.Message = getNotFoundMessage(context)
			}
			return info
		}
	}

	// Document store errors
	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		return parseStatusError(st.Code(), context)
	}

	errLower := strings.ToLower(err.Error())

	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "email") {
			return ErrorInfo{http.StatusConflict, AuthEmailAlreadyExists, "Email is already registered", nil}
		}
		return ErrorInfo{http.StatusConflict, ResourceAlreadyExists, "That record already exists", nil}
	}
	if strings.Contains(errLower, "violates not-null constraint") {
		return ErrorInfo{http.StatusBadRequest, ValidationRequired, "A required field is missing", nil}
	}

	if isNetworkError(err) {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "Could not reach a backing service, please try again later",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseStatusError(code codes.Code, context string) ErrorInfo {
	switch code {
	case codes.NotFound:
		return ErrorInfo{http.StatusNotFound, ResourceNotFound, getNotFoundMessage(context), nil}
	case codes.AlreadyExists:
		return ErrorInfo{http.StatusConflict, ResourceAlreadyExists, "That record already exists", nil}
	case codes.FailedPrecondition, codes.Aborted:
		return ErrorInfo{http.StatusConflict, ResourceConflict, "The record changed, please retry", nil}
	case codes.InvalidArgument:
		return ErrorInfo{http.StatusBadRequest, ValidationInvalidInput, "Some fields are invalid", nil}
	case codes.PermissionDenied, codes.Unauthenticated:
		return ErrorInfo{http.StatusBadGateway, InternalConfigError, "Catalog backend rejected our credentials", nil}
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrorInfo{http.StatusBadGateway, InternalExternalAPI, "Could not reach a backing service, please try again later", nil}
	}
	return ErrorInfo{http.StatusInternalServerError, InternalDatabaseError, getDefaultErrorMessage(context), nil}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, identitytoolkit.ErrNetworkError) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout")
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found"
	case strings.Contains(contextLower, "cart"):
		return "Recipe is not in the cart"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested data was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not create it, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Could not update it, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete it, please try again later"
	}
	return "Something went wrong, please try again later"
}

// ParseAndRespond parses err and writes the matching response.
func ParseAndRespond(c *gin.Context, err error, context string) ErrorInfo {
	info := ParseError(err, context)
	if info.Fields != nil {
		c.JSON(info.Status, ValidationError{
			Error:   info.Code,
			Message: info.Message,
			Fields:  info.Fields,
		})
		return info
	}
	RespondWithError(c, info.Status, info.Code, info.Message)
	return info
}
