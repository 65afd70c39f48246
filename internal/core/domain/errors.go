package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown embed or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrAlreadyPending indicates a request for the same lookup key is still in flight.
	// Only returned when duplicate submissions are rejected.
	ErrAlreadyPending = errors.New("embed already pending")

	// ErrLoopStopped indicates the event loop no longer accepts work.
	ErrLoopStopped = errors.New("event loop stopped")

	// Upload Errors.

	// ErrFileTooLarge indicates an upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrDisallowedType indicates an upload has a MIME type that is not accepted.
	ErrDisallowedType = errors.New("file type not allowed")
)

// User-facing messages shown inside error embeds.
const (
	// MsgUnsupportedEmbed is shown when a scrape returns an unknown embed type.
	MsgUnsupportedEmbed = "That type of embed is not currently supported."

	// MsgFailedToLoadURL replaces server messages reporting an unreachable URL.
	MsgFailedToLoadURL = "There was an error processing that embed link."
)

// EmbedErrorKind classifies terminal embed failures.
type EmbedErrorKind string

// Embed failure kinds.
const (
	// UnsupportedEmbedType means the scrape discriminator was not recognised.
	UnsupportedEmbedType EmbedErrorKind = "unsupported_embed_type"

	// ScrapeTransportError means the scrape request failed in transit or on the server.
	ScrapeTransportError EmbedErrorKind = "scrape_transport_error"

	// UploadFailure means the file upload was rejected.
	UploadFailure EmbedErrorKind = "upload_failure"
)

// EmbedError is a terminal embed failure. It is rendered as an error embed
// in the document rather than returned to the caller.
type EmbedError struct {
	Kind    EmbedErrorKind
	Message string
	Err     error
}

func (e *EmbedError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EmbedError) Unwrap() error {
	return e.Err
}

// RemoteError is a failure reported by a remote media endpoint.
// Message carries the server-supplied message when the response had one.
type RemoteError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error %d (URL: %s)", e.StatusCode, e.URL)
	}
	return e.Message
}

// IsUnsupportedEmbed checks if the error is an unsupported embed type failure.
func IsUnsupportedEmbed(err error) bool {
	return embedErrorKind(err) == UnsupportedEmbedType
}

// IsScrapeFailure checks if the error is a scrape transport failure.
func IsScrapeFailure(err error) bool {
	return embedErrorKind(err) == ScrapeTransportError
}

// IsUploadFailure checks if the error is an upload failure.
func IsUploadFailure(err error) bool {
	return embedErrorKind(err) == UploadFailure
}

func embedErrorKind(err error) EmbedErrorKind {
	var embedErr *EmbedError
	if errors.As(err, &embedErr) {
		return embedErr.Kind
	}
	return ""
}
