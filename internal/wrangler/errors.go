package wrangler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedListResponse matches every *MalformedListResponseError.
	ErrMalformedListResponse = errors.New("malformed list response")
	// ErrStoreCommandFailed matches every *StoreCommandFailedError.
	ErrStoreCommandFailed = errors.New("store command failed")
)

// MalformedListResponseError reports list output that is not a JSON array of
// entries, or an object carrying one under "keys".
type MalformedListResponseError struct {
	Raw string
	Err error
}

func (e *MalformedListResponseError) Error() string {
	return fmt.Sprintf("unable to parse list response %q: %v", truncate(e.Raw, 200), e.Err)
}

func (e *MalformedListResponseError) Unwrap() error { return e.Err }

func (e *MalformedListResponseError) Is(target error) bool {
	return target == ErrMalformedListResponse
}

// StoreCommandFailedError reports a store command that exited non-zero.
type StoreCommandFailedError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *StoreCommandFailedError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no output on stderr"
	}
	return fmt.Sprintf("%s exited with status %d: %s", strings.Join(e.Args, " "), e.ExitCode, msg)
}

func (e *StoreCommandFailedError) Is(target error) bool {
	return target == ErrStoreCommandFailed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
