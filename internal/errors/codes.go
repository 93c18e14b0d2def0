package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthNotReady           = "AUTH_NOT_READY" // session restore still running
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"
	AuthNotSignedIn        = "AUTH_NOT_SIGNED_IN"
	AuthUnsupported        = "AUTH_UNSUPPORTED"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationEmptyValue   = "VALIDATION_EMPTY_VALUE"
	ValidationDuplicate    = "VALIDATION_DUPLICATE_VALUE"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Recipes (RECIPE_) ====================
	RecipeNotFound = "RECIPE_NOT_FOUND"

	// ==================== Cart and staging (CART_) ====================
	CartEntryNotFound   = "CART_ENTRY_NOT_FOUND"
	CartNothingStaged   = "CART_NOTHING_STAGED"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartStale           = "CART_STALE" // superseded by a newer focus

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalUnavailable   = "INTERNAL_UNAVAILABLE"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
