package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by write operations whose precondition row is missing.
var ErrNotFound = errors.New("record not found")

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
