package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/model"
	"github.com/and161185/docuvault/internal/repository"
)

// TypeFilter narrows a snapshot to one record kind.
type TypeFilter string

const (
	FilterAll     TypeFilter = "all"
	FilterRegular TypeFilter = "regular"
	FilterLarge   TypeFilter = "large"
)

// CatalogService manages one user's file records and derived index sets.
type CatalogService interface {
	// FetchAll returns the user's current snapshot.
	FetchAll(ctx context.Context, userUID int64) (model.CatalogSnapshot, error)
	// Get returns a single record.
	Get(ctx context.Context, userUID int64, id uuid.UUID) (*model.FileRecord, error)
	// Update applies a partial update to the named fields only.
	Update(ctx context.Context, userUID int64, id uuid.UUID, upd model.RecordUpdate) error
	// Delete removes the record irrecoverably.
	Delete(ctx context.Context, userUID int64, id uuid.UUID) error
	// AdjustCopies changes the physical-copy counter, floored at zero, and
	// returns the resulting count.
	AdjustCopies(ctx context.Context, userUID int64, id uuid.UUID, delta int) (int, error)
}

type CatalogServiceImpl struct {
	repo         repository.CatalogRepository
	storeTimeout time.Duration

	// Mutations on one record are serialized; the browser equivalent relied
	// on the UI disabling buttons mid-flight.
	mu    sync.Mutex
	locks map[uuid.UUID]*recordLock
}

type recordLock struct {
	mu   sync.Mutex
	refs int
}

// NewCatalogService constructs CatalogService. storeTimeout bounds every
// store call so a hung backend cannot park an operation indefinitely.
func NewCatalogService(repo repository.CatalogRepository, storeTimeout time.Duration) *CatalogServiceImpl {
	if storeTimeout <= 0 {
		storeTimeout = 10 * time.Second
	}
	return &CatalogServiceImpl{
		repo:         repo,
		storeTimeout: storeTimeout,
		locks:        map[uuid.UUID]*recordLock{},
	}
}

// lockRecord acquires the per-record mutex and returns its release func.
// Entries are dropped once uncontended so the map does not grow with every
// record ever touched.
func (s *CatalogServiceImpl) lockRecord(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &recordLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func (s *CatalogServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// FetchAll returns every record for the user; an empty catalog is valid.
func (s *CatalogServiceImpl) FetchAll(ctx context.Context, userUID int64) (model.CatalogSnapshot, error) {
	if userUID <= 0 {
		return model.CatalogSnapshot{}, fmt.Errorf("%w: empty userUID", errs.ErrValidation)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.FetchAll(ctx, userUID)
}

// Get fetches a single record by id.
func (s *CatalogServiceImpl) Get(ctx context.Context, userUID int64, id uuid.UUID) (*model.FileRecord, error) {
	if userUID <= 0 || id == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userUID/id", errs.ErrValidation)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Get(ctx, userUID, id)
}

// Update validates the partial update and applies it under the record lock.
// The embedded payload is never mutated: switching a record to the large
// type requires a link and drops the payload at the store; switching back
// to regular is rejected because the content cannot be re-embedded.
func (s *CatalogServiceImpl) Update(ctx context.Context, userUID int64, id uuid.UUID, upd model.RecordUpdate) error {
	if userUID <= 0 || id == uuid.Nil {
		return fmt.Errorf("%w: empty userUID/id", errs.ErrValidation)
	}
	if upd.Empty() {
		return nil
	}
	if upd.Filename != nil && strings.TrimSpace(*upd.Filename) == "" {
		return fmt.Errorf("%w: empty filename", errs.ErrValidation)
	}
	if upd.Category != nil {
		// Stored lower-cased on edit, mirroring the original UI form.
		c := strings.ToLower(strings.TrimSpace(*upd.Category))
		if c == "" {
			return fmt.Errorf("%w: empty category", errs.ErrValidation)
		}
		*upd.Category = c
	}
	if upd.ExternalLink != nil {
		l := strings.TrimSpace(*upd.ExternalLink)
		if l == "" {
			return fmt.Errorf("%w: empty external link", errs.ErrValidation)
		}
		*upd.ExternalLink = l
	}
	if upd.PhysicalCopies != nil && *upd.PhysicalCopies < 0 {
		return fmt.Errorf("%w: negative physical copies", errs.ErrValidation)
	}
	if upd.Tags != nil {
		*upd.Tags = CleanTags(*upd.Tags)
	}
	if upd.FileType != nil {
		switch *upd.FileType {
		case model.FileTypeLarge:
			if upd.ExternalLink == nil {
				return fmt.Errorf("%w: large record requires external link", errs.ErrValidation)
			}
		case model.FileTypeRegular:
			return fmt.Errorf("%w: cannot switch back to regular, content is immutable", errs.ErrValidation)
		default:
			return fmt.Errorf("%w: bad file type %q", errs.ErrValidation, *upd.FileType)
		}
	}

	unlock := s.lockRecord(id)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Update(ctx, userUID, id, upd)
}

// Delete removes the record; the caller is expected to have confirmed.
func (s *CatalogServiceImpl) Delete(ctx context.Context, userUID int64, id uuid.UUID) error {
	if userUID <= 0 || id == uuid.Nil {
		return fmt.Errorf("%w: empty userUID/id", errs.ErrValidation)
	}

	unlock := s.lockRecord(id)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Delete(ctx, userUID, id)
}

// AdjustCopies changes the counter by delta; the store floors it at zero.
func (s *CatalogServiceImpl) AdjustCopies(ctx context.Context, userUID int64, id uuid.UUID, delta int) (int, error) {
	if userUID <= 0 || id == uuid.Nil {
		return 0, fmt.Errorf("%w: empty userUID/id", errs.ErrValidation)
	}

	unlock := s.lockRecord(id)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.AdjustPhysicalCopies(ctx, userUID, id, delta)
}

// DeriveCategories returns the distinct lower-cased non-empty categories in
// the snapshot, sorted. Recomputed on every fetch, never cached.
func DeriveCategories(snap model.CatalogSnapshot) []string {
	seen := map[string]struct{}{}
	for i := range snap.Records {
		c := strings.ToLower(strings.TrimSpace(snap.Records[i].Category))
		if c != "" {
			seen[c] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// DeriveTags returns the distinct tag values across all records, sorted.
func DeriveTags(snap model.CatalogSnapshot) []string {
	seen := map[string]struct{}{}
	for i := range snap.Records {
		for _, tag := range snap.Records[i].Tags {
			if tag != "" {
				seen[tag] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// FilterSnapshot narrows a snapshot by category, tag, and record kind.
// Empty category/tag match everything; category matching is case-insensitive.
func FilterSnapshot(snap model.CatalogSnapshot, category, tag string, tf TypeFilter) model.CatalogSnapshot {
	category = strings.ToLower(strings.TrimSpace(category))
	out := model.CatalogSnapshot{}
	for i := range snap.Records {
		r := snap.Records[i]
		if category != "" && strings.ToLower(r.Category) != category {
			continue
		}
		if tag != "" && !containsTag(r.Tags, tag) {
			continue
		}
		switch tf {
		case FilterRegular:
			if r.FileType != model.FileTypeRegular {
				continue
			}
		case FilterLarge:
			if r.FileType != model.FileTypeLarge {
				continue
			}
		}
		out.Records = append(out.Records, r)
	}
	return out
}

// CleanTags trims surrounding whitespace and drops empty entries, keeping
// order and record-level duplicates.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
