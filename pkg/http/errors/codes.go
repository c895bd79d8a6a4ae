package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeLoginFailed            = "login_failed"

	// Validation errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"

	// Quiz session errors
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeInvalidQuiz      = "invalid_quiz"
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeQuizNotFound     = "quiz_not_found"
	ErrCodeNothingToRetry   = "nothing_to_retry"

	// Learning content errors
	ErrCodeThemeNotFound  = "theme_not_found"
	ErrCodeCourseNotFound = "course_not_found"
	ErrCodeUserNotFound   = "user_not_found"

	// History errors
	ErrCodeHistoryFetchFailed = "history_fetch_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
