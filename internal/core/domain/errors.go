package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguousKind is returned when an upload form does not have exactly one
// of link, title or file filled.
var ErrAmbiguousKind = errors.New("could not resolve item kind from the filled inputs")

// ErrQueryTooShort is returned for search queries below MinQueryLength
var ErrQueryTooShort = errors.New("search query too short")

// ErrInvalidPage is returned for page numbers or sizes below 1
var ErrInvalidPage = errors.New("page and page size must be positive")

// MinQueryLength is the shortest query ever sent to the server
const MinQueryLength = 3

// ValidationError reports a missing required field for a resolved kind
type ValidationError struct {
	Kind    Kind
	Field   UploadField
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError means no HTTP response was obtained, or its body could not be read
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteRejection means the server answered with an unexpected status
type RemoteRejection struct {
	Op     string
	Status int
	Body   string
}

func (e *RemoteRejection) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.Status, body)
}

// IsRemote reports whether err is a transport error or a remote rejection
func IsRemote(err error) bool {
	var te *TransportError
	var rr *RemoteRejection
	return errors.As(err, &te) || errors.As(err, &rr)
}

// RemoteBody returns the server-provided body of a rejection, if any
func RemoteBody(err error) string {
	var rr *RemoteRejection
	if errors.As(err, &rr) {
		return strings.TrimSpace(rr.Body)
	}
	return ""
}
