package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/docuvault/internal/model"
)

// CatalogRepository provides per-user access to file records.
type CatalogRepository interface {
	// Insert appends a new record to the user's collection and returns the
	// store-assigned id and creation timestamp.
	Insert(ctx context.Context, rec *model.FileRecord) (uuid.UUID, error)

	// Update applies a partial update to the named fields only; unnamed
	// fields are left untouched. Returns errs.ErrNotFound when absent.
	Update(ctx context.Context, userUID int64, id uuid.UUID, upd model.RecordUpdate) error

	// Delete removes the record irrecoverably (no tombstone).
	Delete(ctx context.Context, userUID int64, id uuid.UUID) error

	// Get returns a single record by id.
	Get(ctx context.Context, userUID int64, id uuid.UUID) (*model.FileRecord, error)

	// FetchAll returns every record for the user; empty is a valid result.
	FetchAll(ctx context.Context, userUID int64) (model.CatalogSnapshot, error)

	// AdjustPhysicalCopies applies max(0, current+delta) in one atomic
	// statement and returns the resulting count.
	AdjustPhysicalCopies(ctx context.Context, userUID int64, id uuid.UUID, delta int) (int, error)
}
