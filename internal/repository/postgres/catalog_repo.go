package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/docuvault/internal/codec"
	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/model"
)

// CatalogRepo implements CatalogRepository using PostgreSQL.
type CatalogRepo struct{ db *DB }

// NewCatalogRepo constructs a catalog repository.
func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

const recordColumns = `id, user_uid, filename, description, category, tags, file_type, ` +
	`COALESCE(payload, ''), COALESCE(external_link, ''), physical_copies, created_at, ` +
	`uploader_name, uploader_email`

// Insert appends a new record; id and created_at are assigned by the store.
func (r *CatalogRepo) Insert(ctx context.Context, rec *model.FileRecord) (uuid.UUID, error) {
	const q = `
INSERT INTO files (user_uid, filename, description, category, tags, file_type,
                   payload, external_link, physical_copies, uploader_name, uploader_email)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)
RETURNING id, created_at`
	var id uuid.UUID
	err := r.db.Pool.QueryRow(ctx, q,
		rec.UserUID, rec.Filename, rec.Description, rec.Category, rec.Tags,
		string(rec.FileType), string(rec.Payload), rec.ExternalLink,
		rec.PhysicalCopies, rec.UploadedBy.Name, rec.UploadedBy.Email,
	).Scan(&id, &rec.CreatedAt)
	if err != nil {
		return uuid.Nil, err
	}
	rec.ID = id
	return id, nil
}

// Update applies only the fields named in upd. Switching the record to the
// large type stores the link and drops the embedded payload, so exactly one
// of payload/external_link stays populated.
func (r *CatalogRepo) Update(ctx context.Context, userUID int64, id uuid.UUID, upd model.RecordUpdate) error {
	set := make([]string, 0, 7)
	args := []any{userUID, id}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}

	if upd.Filename != nil {
		add("filename", *upd.Filename)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Tags != nil {
		add("tags", *upd.Tags)
	}
	if upd.PhysicalCopies != nil {
		add("physical_copies", *upd.PhysicalCopies)
	}
	if upd.FileType != nil {
		add("file_type", string(*upd.FileType))
		if *upd.FileType == model.FileTypeLarge {
			set = append(set, "payload=NULL")
		}
	}
	if upd.ExternalLink != nil {
		add("external_link", *upd.ExternalLink)
	}
	if len(set) == 0 {
		return nil
	}

	q := "UPDATE files SET " + strings.Join(set, ", ") + " WHERE user_uid=$1 AND id=$2"
	tag, err := r.db.Pool.Exec(ctx, q, args...)
	if err != nil {
		// The files_content_shape constraint rejects updates that would leave
		// both or neither of payload/external_link populated.
		if isCheckViolation(err) {
			return fmt.Errorf("%w: content shape", errs.ErrValidation)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the record irrecoverably.
func (r *CatalogRepo) Delete(ctx context.Context, userUID int64, id uuid.UUID) error {
	const q = `DELETE FROM files WHERE user_uid=$1 AND id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userUID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Get returns a single record by id.
func (r *CatalogRepo) Get(ctx context.Context, userUID int64, id uuid.UUID) (*model.FileRecord, error) {
	q := `SELECT ` + recordColumns + ` FROM files WHERE user_uid=$1 AND id=$2`
	rec, err := scanRecord(r.db.Pool.QueryRow(ctx, q, userUID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// FetchAll returns every record for the user, newest first.
func (r *CatalogRepo) FetchAll(ctx context.Context, userUID int64) (model.CatalogSnapshot, error) {
	q := `SELECT ` + recordColumns + ` FROM files WHERE user_uid=$1 ORDER BY created_at DESC, id`
	rows, err := r.db.Pool.Query(ctx, q, userUID)
	if err != nil {
		return model.CatalogSnapshot{}, err
	}
	defer rows.Close()

	var snap model.CatalogSnapshot
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return model.CatalogSnapshot{}, err
		}
		snap.Records = append(snap.Records, *rec)
	}
	return snap, rows.Err()
}

// AdjustPhysicalCopies applies max(0, current+delta) in a single statement,
// so concurrent adjustments from multiple sessions cannot lose updates.
func (r *CatalogRepo) AdjustPhysicalCopies(ctx context.Context, userUID int64, id uuid.UUID, delta int) (int, error) {
	const q = `
UPDATE files SET physical_copies = GREATEST(0, physical_copies + $3)
WHERE user_uid=$1 AND id=$2
RETURNING physical_copies`
	var n int
	if err := r.db.Pool.QueryRow(ctx, q, userUID, id, delta).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errs.ErrNotFound
		}
		return 0, err
	}
	return n, nil
}

func scanRecord(row pgx.Row) (*model.FileRecord, error) {
	var (
		rec      model.FileRecord
		fileType string
		payload  string
	)
	err := row.Scan(&rec.ID, &rec.UserUID, &rec.Filename, &rec.Description,
		&rec.Category, &rec.Tags, &fileType, &payload, &rec.ExternalLink,
		&rec.PhysicalCopies, &rec.CreatedAt, &rec.UploadedBy.Name, &rec.UploadedBy.Email)
	if err != nil {
		return nil, err
	}
	rec.FileType = model.FileType(fileType)
	rec.Payload = codec.Payload(payload)
	rec.UploadedBy.UID = rec.UserUID
	return &rec, nil
}
