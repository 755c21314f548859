package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind categorises collaborator failures.
type Kind int

const (
	KindNone Kind = iota
	// KindTransient covers network and server errors. Safe to retry later.
	KindTransient
	// KindAuth covers rejected, missing or exhausted credentials.
	KindAuth
	// KindMalformed means the collaborator answered with something unusable.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindMalformed:
		return "malformed"
	default:
		return "none"
	}
}

var (
	ErrTransient = errors.New("ai collaborator unavailable")
	ErrAuth      = errors.New("ai credential rejected")
	ErrMalformed = errors.New("ai response malformed")
)

// Error is a categorised collaborator failure. errors.Is matches it against
// the sentinel for its Kind.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

var authMarkers = []string{"user not found", "api key", "unauthorized", "forbidden", "limit", "quota"}

// isAuthFailure reports whether a status or provider message signals a
// credential or quota problem.
func isAuthFailure(status int, message string) bool {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return true
	}
	msg := strings.ToLower(message)
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// statusError builds the error for a non-success provider response.
func statusError(status int, message string) *Error {
	kind := KindTransient
	if isAuthFailure(status, message) {
		kind = KindAuth
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// Classify returns the failure category of err. Uncategorised errors are
// transient unless their text names a credential problem.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	if isAuthFailure(0, err.Error()) {
		return KindAuth
	}
	return KindTransient
}
