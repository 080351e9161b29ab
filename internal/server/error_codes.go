package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidQuery    = 1003
	ErrCodeInvalidID       = 1004
	ErrCodeInvalidStatus   = 1005
	ErrCodeMissingRequired = 1006
	ErrCodeInvalidEmail    = 1007
	ErrCodeUploadRejected  = 1008
	ErrCodeReplyTooShort   = 1009

	// Domain state (2xxx)
	ErrCodeContactNotFound     = 2001
	ErrCodeApplicationNotFound = 2002
	ErrCodeFileNotFound        = 2003
	ErrCodeResumeNotFound      = 2004
	ErrCodeAdminNotFound       = 2005
	ErrCodeUsernameExists      = 2101
	ErrCodeConflict            = 2102

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeForbidden         = 3002
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodeContactNotFound
	case 409:
		return ErrCodeConflict
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
