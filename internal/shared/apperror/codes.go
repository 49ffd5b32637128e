package apperror

const (
	// Client errors (4xx)
	CodeValidation     = "VALIDATION"
	CodeAuthentication = "AUTHENTICATION"
	CodeAuthorization  = "AUTHORIZATION"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInvalidState   = "INVALID_STATE"

	// Server / transport errors (5xx)
	CodeNetwork     = "NETWORK"
	CodeServerError = "SERVER_ERROR"
	CodeUnknown     = "UNKNOWN"
)
