package constants

import "net/http"

// CodedError carries the HTTP status the API error handler should answer
// with. Services wrap these with fmt.Errorf("...: %w", err); the handler
// unwraps until it finds one.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError(http.StatusNotFound, "not found")
	ErrUnauthorized      = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrMissingAuthCookie = NewCodedError(http.StatusUnauthorized, "missing auth cookie")
	ErrInvalidToken      = NewCodedError(http.StatusUnauthorized, "invalid auth token")
	ErrInvalidRequest    = NewCodedError(http.StatusBadRequest, "invalid request")
	ErrUsernameTaken     = NewCodedError(http.StatusConflict, "username already taken")
	ErrEmailTaken        = NewCodedError(http.StatusConflict, "email already taken")
	ErrBadCredentials    = NewCodedError(http.StatusUnauthorized, "invalid credentials")

	// Forecast pipeline taxonomy. All terminal for the request: the inputs
	// would not change between retries.
	ErrInsufficientData = NewCodedError(http.StatusBadRequest,
		"not enough historical data for predictions, add more energy records")
	ErrInvalidHorizon = NewCodedError(http.StatusBadRequest,
		"prediction horizon must be between 1 and the configured maximum")
	ErrModelNotFound = NewCodedError(http.StatusServiceUnavailable,
		"forecast model artifact not found, run the training job")
	ErrModelVersionMismatch = NewCodedError(http.StatusServiceUnavailable,
		"forecast model artifact does not match the current feature schema, retrain the model")
)
