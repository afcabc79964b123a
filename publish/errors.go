package publish

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for upload failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrAccessDenied indicates authorization failure (403).
	ErrAccessDenied = errors.New("access denied")

	// ErrAuth indicates authentication failure (no credentials,
	// expired token).
	ErrAuth = errors.New("authentication failed")

	// ErrThrottled indicates rate limiting (429, SlowDown).
	ErrThrottled = errors.New("rate limited")

	// ErrNetwork indicates a network-level failure.
	ErrNetwork = errors.New("network error")
)

// UploadError wraps an underlying S3 error with its classification and
// the object key involved. The original error stays in the chain for
// errors.As inspection.
type UploadError struct {
	Kind error
	Key  string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("upload %s: %v: %v", e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the classified sentinel.
func (e *UploadError) Is(target error) bool {
	return e.Kind != nil && errors.Is(e.Kind, target)
}

// wrapUploadError classifies and wraps an upload failure.
func wrapUploadError(err error, key string) error {
	if err == nil {
		return nil
	}
	return &UploadError{Kind: classify(err), Key: key, Err: err}
}

// classify maps an S3 error to a sentinel by type and message pattern.
func classify(err error) error {
	msg := strings.ToLower(err.Error())

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrNetwork
	}

	switch {
	case containsAny(msg, "accessdenied", "forbidden", "403"):
		return ErrAccessDenied
	case containsAny(msg, "nocredentialproviders", "credentials", "invalidaccesskeyid",
		"signaturedoesnotmatch", "expiredtoken", "401", "unauthorized"):
		return ErrAuth
	case containsAny(msg, "slowdown", "rate exceeded", "throttl", "429", "toomanyrequests"):
		return ErrThrottled
	case containsAny(msg, "connection refused", "no route to host", "network unreachable",
		"dial tcp", "i/o timeout"):
		return ErrNetwork
	default:
		return nil
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
