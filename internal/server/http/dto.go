package httpserver

import (
	"time"

	"github.com/and161185/docuvault/internal/model"
)

// Wire representations of domain entities. The JSON field names mirror what
// the browser front-end stores and reads.

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerResponse struct {
	UID int64 `json:"uid"`
}

type loginRequest struct {
	UID int64 `json:"uid"`
}

type userDTO struct {
	UID   int64  `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    userDTO   `json:"user"`
}

type uploadRequest struct {
	Filename    string   `json:"filename"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	FileType    string   `json:"fileType"`
	// Regular uploads: raw content, standard base64, with its MIME type.
	Content string `json:"content,omitempty"`
	Mime    string `json:"mime,omitempty"`
	// Large uploads: externally hosted location.
	ExternalLink string `json:"externalLink,omitempty"`
}

type recordDTO struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Tags           []string       `json:"tags"`
	FileType       string         `json:"fileType"`
	Payload        string         `json:"fileData,omitempty"`
	ExternalLink   string         `json:"externalLink,omitempty"`
	PhysicalCopies int            `json:"physicalCopies"`
	CreatedAt      time.Time      `json:"createdAt"`
	UploadedBy     model.Uploader `json:"uploadedBy"`
}

type listResponse struct {
	Files      []recordDTO `json:"files"`
	Categories []string    `json:"categories"`
	Tags       []string    `json:"tags"`
}

type updateRequest struct {
	Filename       *string   `json:"filename"`
	Description    *string   `json:"description"`
	Category       *string   `json:"category"`
	Tags           *[]string `json:"tags"`
	FileType       *string   `json:"fileType"`
	ExternalLink   *string   `json:"externalLink"`
	PhysicalCopies *int      `json:"physicalCopies"`
}

type copiesRequest struct {
	Delta int `json:"delta"`
}

type copiesResponse struct {
	PhysicalCopies int `json:"physicalCopies"`
}

func toRecordDTO(r *model.FileRecord) recordDTO {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return recordDTO{
		ID:             r.ID.String(),
		Filename:       r.Filename,
		Description:    r.Description,
		Category:       r.Category,
		Tags:           tags,
		FileType:       string(r.FileType),
		Payload:        string(r.Payload),
		ExternalLink:   r.ExternalLink,
		PhysicalCopies: r.PhysicalCopies,
		CreatedAt:      r.CreatedAt,
		UploadedBy:     r.UploadedBy,
	}
}

func (u *updateRequest) toModel() model.RecordUpdate {
	upd := model.RecordUpdate{
		Filename:       u.Filename,
		Description:    u.Description,
		Category:       u.Category,
		Tags:           u.Tags,
		ExternalLink:   u.ExternalLink,
		PhysicalCopies: u.PhysicalCopies,
	}
	if u.FileType != nil {
		ft := model.FileType(*u.FileType)
		upd.FileType = &ft
	}
	return upd
}
