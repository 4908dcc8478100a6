package uploader

import "errors"

var (
	// ErrDecode indicates a malformed data URI, base64 payload or image.
	ErrDecode = errors.New("decode failed")
	// ErrSourceNotFound indicates a thumbnail source missing from storage.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrBackendWrite wraps any storage failure while persisting.
	ErrBackendWrite = errors.New("storage write failed")
	// ErrBackendDelete wraps any storage failure while deleting.
	ErrBackendDelete = errors.New("storage delete failed")
	// ErrInvalidArgument indicates a missing mandatory argument.
	ErrInvalidArgument = errors.New("invalid argument")
)
