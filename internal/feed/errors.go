package feed

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the feed pipeline. Validation errors reject the
// request immediately; store errors are retryable at a higher layer and
// are never swallowed into an empty result.
var (
	ErrInvalidBoundingBox = errors.New("invalid bounding box")
	ErrInvalidKind        = errors.New("invalid feed kind")
	ErrStoreUnavailable   = errors.New("feed store unavailable")
)

// storeError wraps a data-store failure so callers can map it to a
// retryable server error. Cancellation passes through untouched: a
// cancelled request is not a store outage.
func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
