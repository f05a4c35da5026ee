// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/docuvault/internal/codec"
)

// FileType discriminates embedded records from externally hosted ones.
type FileType string

const (
	// FileTypeRegular marks a record whose content is embedded via the codec.
	FileTypeRegular FileType = "regular"
	// FileTypeLarge marks a record referencing externally hosted content.
	FileTypeLarge FileType = "large"
)

// Valid reports whether ft is one of the known file types.
func (ft FileType) Valid() bool {
	return ft == FileTypeRegular || ft == FileTypeLarge
}

// User represents a registered identity. Created once; immutable thereafter.
// The uid is the sole credential presented on every session.
type User struct {
	UID       int64
	Name      string
	Email     string // unique
	CreatedAt time.Time
}

// Uploader is the denormalized snapshot of the uploading identity,
// captured at record creation time.
type Uploader struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	UID   int64  `json:"uid"`
}

// FileRecord is one catalog entry. Exactly one of Payload/ExternalLink is
// populated, determined by FileType.
type FileRecord struct {
	ID             uuid.UUID
	UserUID        int64
	Filename       string
	Description    string
	Category       string
	Tags           []string
	FileType       FileType
	Payload        codec.Payload // regular only; never mutated post-creation
	ExternalLink   string        // large only
	PhysicalCopies int
	CreatedAt      time.Time
	UploadedBy     Uploader
}

// Size returns the decoded content size in bytes for regular records, 0 otherwise.
func (r *FileRecord) Size() int {
	if r.FileType != FileTypeRegular {
		return 0
	}
	return r.Payload.DecodedLen()
}

// RecordUpdate is a partial update of a FileRecord. Nil fields are left
// untouched. Payload is deliberately absent: content is immutable.
type RecordUpdate struct {
	Filename       *string
	Description    *string
	Category       *string
	Tags           *[]string
	FileType       *FileType
	ExternalLink   *string
	PhysicalCopies *int
}

// Empty reports whether the update names no fields at all.
func (u *RecordUpdate) Empty() bool {
	return u.Filename == nil && u.Description == nil && u.Category == nil &&
		u.Tags == nil && u.FileType == nil && u.ExternalLink == nil &&
		u.PhysicalCopies == nil
}

// CatalogSnapshot is the point-in-time materialization of one user's records.
// Derived index sets are recomputed from it on every fetch, not cached.
type CatalogSnapshot struct {
	Records []FileRecord
}

// Session is the client-held authenticated identity, cached locally between
// runs and cleared on sign-out.
type Session struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	UID      int64     `json:"uid"`
	LoggedIn bool      `json:"loggedin"`
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires"`
}
