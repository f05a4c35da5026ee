// Package codec converts raw file content to and from the self-describing
// textual encoding stored in the catalog: data:<mime>;base64,<body>.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/and161185/docuvault/internal/errs"
)

// MimeUnknown is returned by SniffMime when no MIME type can be extracted.
const MimeUnknown = "unknown"

const (
	headerPrefix = "data:"
	base64Marker = ";base64"
)

// Payload is the encoded representation of an embedded file.
type Payload string

// Encode produces the textual representation embedding the MIME type and a
// base64 rendering of raw. Deterministic, lossless, reversible.
func Encode(raw []byte, mime string) Payload {
	return Payload(headerPrefix + mime + base64Marker + "," + base64.StdEncoding.EncodeToString(raw))
}

// Decode splits a payload back into its MIME type and raw bytes. It fails
// with errs.ErrMalformedPayload unless the input matches the two-part
// structure exactly.
func Decode(p Payload) (string, []byte, error) {
	header, body, err := split(p)
	if err != nil {
		return "", nil, err
	}
	mime, ok := mimeFromHeader(header)
	if !ok {
		return "", nil, fmt.Errorf("header %q: %w", header, errs.ErrMalformedPayload)
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, fmt.Errorf("body: %w", errs.ErrMalformedPayload)
	}
	return mime, raw, nil
}

// SniffMime extracts the MIME type from the header without decoding the
// body, so preview routing does not pay the decode cost on large payloads.
func SniffMime(p Payload) string {
	header, _, err := split(p)
	if err != nil {
		return MimeUnknown
	}
	mime, ok := mimeFromHeader(header)
	if !ok || mime == "" {
		return MimeUnknown
	}
	return mime
}

// DecodedLen returns the decoded body size in bytes, 0 for malformed input.
func (p Payload) DecodedLen() int {
	_, body, err := split(p)
	if err != nil {
		return 0
	}
	pad := strings.Count(body[max(0, len(body)-2):], "=")
	return base64.StdEncoding.DecodedLen(len(body)) - pad
}

func split(p Payload) (header, body string, err error) {
	s := string(p)
	i := strings.IndexByte(s, ',')
	if i < 0 || strings.IndexByte(s[i+1:], ',') >= 0 {
		return "", "", errs.ErrMalformedPayload
	}
	return s[:i], s[i+1:], nil
}

func mimeFromHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, headerPrefix) || !strings.HasSuffix(header, base64Marker) {
		return "", false
	}
	return header[len(headerPrefix) : len(header)-len(base64Marker)], true
}
