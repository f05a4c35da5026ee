// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/docuvault/internal/model"
)

// UserRepository provides access to registered identities.
type UserRepository interface {
	// Create inserts a new identity and allocates its uid atomically at the
	// store boundary (one greater than the current maximum, starting at 1).
	// Returns errs.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, name, email string) (*model.User, error)
	// GetByUID loads an identity by its uid.
	GetByUID(ctx context.Context, uid int64) (*model.User, error)
}
