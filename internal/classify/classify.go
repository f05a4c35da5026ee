// Package classify selects a preview strategy for catalog records based on
// their content type, without any server-side content processing.
package classify

import (
	"fmt"
	"strings"

	"github.com/and161185/docuvault/internal/codec"
	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/model"
)

// PreviewKind is the display category of a record.
type PreviewKind string

const (
	KindImage        PreviewKind = "image"
	KindPDF          PreviewKind = "pdf"
	KindText         PreviewKind = "text"
	KindVideo        PreviewKind = "video"
	KindAudio        PreviewKind = "audio"
	KindExternalLink PreviewKind = "external-link"
	KindUnknown      PreviewKind = "unknown"
)

// textExcerptLimit bounds the decoded text excerpt shown in previews.
const textExcerptLimit = 200

// Classify maps a record to its PreviewKind. Large records are always
// ExternalLink regardless of any other field; regular records are matched
// by the MIME prefix sniffed from the payload header. Pure and idempotent.
func Classify(r *model.FileRecord) PreviewKind {
	if r.FileType == model.FileTypeLarge {
		return KindExternalLink
	}
	mime := codec.SniffMime(r.Payload)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case mime == "application/pdf":
		return KindPDF
	case strings.HasPrefix(mime, "text/"):
		return KindText
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	case strings.HasPrefix(mime, "audio/"):
		return KindAudio
	default:
		return KindUnknown
	}
}

// Preview is the render data for a record, shaped per kind.
type Preview struct {
	Kind PreviewKind `json:"kind"`
	// Inline carries the encoded payload for kinds rendered directly from
	// the data URI (image, pdf, video, audio).
	Inline codec.Payload `json:"inline,omitempty"`
	// Excerpt carries the truncated decoded body for text records.
	Excerpt string `json:"excerpt,omitempty"`
	// Link carries the external URL for large records.
	Link string `json:"link,omitempty"`
	// Metadata-only fallback for unknown content.
	Filename string `json:"filename,omitempty"`
	Mime     string `json:"mime,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// BuildPreview assembles render data for the record's kind. A payload that
// cannot be decoded yields errs.ErrMalformedPayload; callers surface it as
// "preview unavailable" rather than failing the request.
func BuildPreview(r *model.FileRecord) (Preview, error) {
	kind := Classify(r)
	switch kind {
	case KindExternalLink:
		return Preview{Kind: kind, Link: r.ExternalLink}, nil
	case KindText:
		_, raw, err := codec.Decode(r.Payload)
		if err != nil {
			return Preview{}, fmt.Errorf("text preview: %w", err)
		}
		return Preview{Kind: kind, Excerpt: excerpt(string(raw))}, nil
	case KindImage, KindPDF, KindVideo, KindAudio:
		return Preview{Kind: kind, Inline: r.Payload}, nil
	default:
		return Preview{
			Kind:     kind,
			Filename: r.Filename,
			Mime:     codec.SniffMime(r.Payload),
			Size:     r.Size(),
		}, nil
	}
}

// Content resolves a record for opening or downloading. Regular records are
// decoded back to raw bytes with their MIME type; large records return the
// external link instead.
func Content(r *model.FileRecord) (mime string, raw []byte, link string, err error) {
	if r.FileType == model.FileTypeLarge {
		if r.ExternalLink == "" {
			return "", nil, "", fmt.Errorf("external link missing: %w", errs.ErrMalformedPayload)
		}
		return "", nil, r.ExternalLink, nil
	}
	mime, raw, err = codec.Decode(r.Payload)
	if err != nil {
		return "", nil, "", err
	}
	return mime, raw, "", nil
}

// excerpt truncates to textExcerptLimit characters, never splitting a rune.
func excerpt(s string) string {
	n := 0
	for i := range s {
		if n == textExcerptLimit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
