package format

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raphi011/kvview/internal/jsonvalue"
)

var (
	// ErrPastExpiration is returned for an expiration that is not in the future.
	ErrPastExpiration = errors.New("must enter a future date")
	// ErrInvalidMetadata is returned for metadata that is not valid JSON.
	ErrInvalidMetadata = errors.New("metadata must be valid JSON")
)

// ParseExpiration parses an RFC 3339 timestamp into epoch seconds. Empty input
// clears the expiration (nil, nil).
func ParseExpiration(input string, now time.Time) (*int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return nil, fmt.Errorf("must enter a valid RFC 3339 date (e.g. %s): %w", now.UTC().Format(time.RFC3339), err)
	}
	if t.Before(now) {
		return nil, fmt.Errorf("%s: %w", input, ErrPastExpiration)
	}
	epoch := t.Unix()
	return &epoch, nil
}

// ExpirationInput is the editable form of an expiration, "" when absent.
func ExpirationInput(expiration *int64) string {
	if expiration == nil {
		return ""
	}
	return time.Unix(*expiration, 0).UTC().Format(time.RFC3339)
}

// ParseMetadata parses JSON metadata. Empty input clears it (nil, nil).
func ParseMetadata(input string) (*jsonvalue.Value, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	v, err := jsonvalue.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}
	return &v, nil
}

// MetadataInput is the editable form of metadata, "" when absent.
func MetadataInput(metadata *jsonvalue.Value) string {
	if metadata == nil {
		return ""
	}
	return metadata.String()
}
