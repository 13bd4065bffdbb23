package domain

import "go.trai.ch/zerr"

var (
	// ErrConfiguration is returned when required configuration, such as credentials, is missing.
	ErrConfiguration = zerr.New("configuration error")

	// ErrValidation is returned when caller input is rejected before any remote call.
	ErrValidation = zerr.New("validation error")

	// ErrNoImages is returned when a submission carries no image references.
	ErrNoImages = zerr.New("at least one image required")

	// ErrAuth is the parent kind of every authentication failure reported by the remote API.
	ErrAuth = zerr.New("authentication failed")

	// ErrSignatureMismatch is returned when the remote API rejects the request signature.
	ErrSignatureMismatch = zerr.New("signature mismatch")

	// ErrUnauthorized is returned for a 401 response that is not a signature mismatch.
	ErrUnauthorized = zerr.New("unauthorized")

	// ErrForbidden is returned for a 403 response.
	ErrForbidden = zerr.New("forbidden")

	// ErrRemoteAPI is returned for non-2xx responses, unparsable bodies and non-success business codes.
	ErrRemoteAPI = zerr.New("remote api error")

	// ErrRemoteTaskFailed is returned when the remote task reaches the failed terminal state.
	ErrRemoteTaskFailed = zerr.New("remote task failed")

	// ErrUpload is returned when an artifact cannot be externalized.
	ErrUpload = zerr.New("upload failed")

	// ErrTimeout is returned when the polling budget is exhausted.
	ErrTimeout = zerr.New("generation timed out")

	// ErrPersistence marks ledger read/write failures. It is logged, never returned to callers.
	ErrPersistence = zerr.New("history persistence failed")

	// ErrRecordNotFound is returned when the history ledger holds no record for a task id.
	ErrRecordNotFound = zerr.New("record not found")

	// ErrInvalidDataURI is returned when an upload payload is not a base64 image data URI.
	ErrInvalidDataURI = zerr.New("invalid image data uri")

	// ErrConfigReadFailed is returned when the config file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)

// kindError tags a detailed error with one of the sentinel kinds above.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

// WithKind returns err tagged with kind so that errors.Is(result, kind) holds
// while the detail and its zerr metadata stay reachable through errors.As.
func WithKind(kind, err error) error {
	if err == nil {
		return kind
	}
	return &kindError{kind: kind, err: err}
}
