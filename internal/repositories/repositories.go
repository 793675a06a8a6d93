// Package repositories translates entity operations into SQL against the
// relational store. Every method takes a context, applies a uniform query
// timeout and wraps failures in domain.StoreError so callers log detail
// server-side and surface a generic message.
package repositories

import (
	"context"
	"time"

	"carpool/internal/domain"
)

const queryTimeout = 10 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func storeErr(op string, err error) error {
	return domain.StoreError{Op: op, Err: err}
}
