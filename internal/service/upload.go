package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/and161185/docuvault/internal/codec"
	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/model"
	"github.com/and161185/docuvault/internal/repository"
)

// MaxEmbeddedSize is the hard ceiling for embedded file content. A file of
// exactly this size is rejected; one byte under is accepted.
const MaxEmbeddedSize = 1 << 20 // 1 MiB

// UploadState names the step an upload attempt is in.
type UploadState string

const (
	StateIdle         UploadState = "idle"
	StateValidating   UploadState = "validating"
	StateEncoding     UploadState = "encoding"
	StateLinkAccepted UploadState = "link-accepted"
	StatePersisting   UploadState = "persisting"
	StateDone         UploadState = "done"
	StateFailed       UploadState = "failed"
)

// UploadInput is the transient form state of one upload attempt.
type UploadInput struct {
	Filename    string
	Description string
	Category    string
	Tags        []string
	FileType    model.FileType

	// Regular uploads: content source, declared size, and MIME type.
	Content io.Reader
	Size    int64
	Mime    string

	// Large uploads: externally hosted location.
	ExternalLink string
}

// UploadResult reports the outcome of an attempt, including the state it
// finished in.
type UploadResult struct {
	Record *model.FileRecord
	State  UploadState
}

// UploadPipeline orchestrates validation, encoding, and persistence of one
// new record. Validation and encoding failures occur strictly before any
// store write, so a failed attempt never leaves a partial record.
type UploadPipeline struct {
	catalog      repository.CatalogRepository
	storeTimeout time.Duration
}

// NewUploadPipeline constructs the pipeline over the catalog store.
func NewUploadPipeline(catalog repository.CatalogRepository, storeTimeout time.Duration) *UploadPipeline {
	if storeTimeout <= 0 {
		storeTimeout = 10 * time.Second
	}
	return &UploadPipeline{catalog: catalog, storeTimeout: storeTimeout}
}

// Run executes one attempt: Idle -> Validating -> (Encoding | LinkAccepted)
// -> Persisting -> Done. Any failure finishes in StateFailed with the cause.
func (p *UploadPipeline) Run(ctx context.Context, uploader *model.User, in UploadInput) (UploadResult, error) {
	if err := p.validate(uploader, &in); err != nil {
		return UploadResult{State: StateFailed}, fmt.Errorf("%s: %w", StateValidating, err)
	}

	rec := &model.FileRecord{
		UserUID:     uploader.UID,
		Filename:    strings.TrimSpace(in.Filename),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Tags:        CleanTags(in.Tags),
		FileType:    in.FileType,
		UploadedBy: model.Uploader{
			Name:  uploader.Name,
			Email: uploader.Email,
			UID:   uploader.UID,
		},
	}

	switch in.FileType {
	case model.FileTypeRegular:
		payload, err := p.encode(in)
		if err != nil {
			return UploadResult{State: StateFailed}, fmt.Errorf("%s: %w", StateEncoding, err)
		}
		rec.Payload = payload
	case model.FileTypeLarge:
		// LinkAccepted: no encoding, the link is stored as-is.
		rec.ExternalLink = strings.TrimSpace(in.ExternalLink)
	}

	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()
	if _, err := p.catalog.Insert(ctx, rec); err != nil {
		return UploadResult{State: StateFailed}, fmt.Errorf("%s: %w", StatePersisting, err)
	}
	return UploadResult{Record: rec, State: StateDone}, nil
}

func (p *UploadPipeline) validate(uploader *model.User, in *UploadInput) error {
	if uploader == nil || uploader.UID <= 0 {
		return fmt.Errorf("%w: no uploader identity", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Filename) == "" {
		return fmt.Errorf("%w: empty filename", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: empty category", errs.ErrValidation)
	}
	switch in.FileType {
	case model.FileTypeRegular:
		if in.Content == nil {
			return fmt.Errorf("%w: no file selected", errs.ErrValidation)
		}
		if in.Size >= MaxEmbeddedSize {
			return fmt.Errorf("%w: %d bytes", errs.ErrFileTooLarge, in.Size)
		}
	case model.FileTypeLarge:
		if strings.TrimSpace(in.ExternalLink) == "" {
			return fmt.Errorf("%w: empty external link", errs.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: bad file type %q", errs.ErrValidation, in.FileType)
	}
	return nil
}

// encode reads the source and produces the stored payload. The declared size
// is not trusted: the ceiling is re-checked against the bytes actually read.
func (p *UploadPipeline) encode(in UploadInput) (codec.Payload, error) {
	raw, err := io.ReadAll(io.LimitReader(in.Content, MaxEmbeddedSize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrReadError, err)
	}
	if int64(len(raw)) >= MaxEmbeddedSize {
		return "", fmt.Errorf("%w: %d bytes", errs.ErrFileTooLarge, len(raw))
	}
	mime := in.Mime
	if mime == "" {
		mime = "application/octet-stream"
	}
	return codec.Encode(raw, mime), nil
}
