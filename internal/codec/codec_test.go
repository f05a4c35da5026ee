package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/docuvault/internal/errs"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  []byte
		mime string
	}{
		{"text", []byte("hello world"), "text/plain"},
		{"binary", []byte{0x00, 0xff, 0x10, 0x80}, "application/octet-stream"},
		{"empty", []byte{}, "image/png"},
		{"single byte", []byte{0x42}, "application/pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Encode(tc.raw, tc.mime)

			mime, raw, err := Decode(p)
			require.NoError(t, err)
			require.Equal(t, tc.mime, mime)
			require.True(t, bytes.Equal(tc.raw, raw))
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	t.Parallel()

	raw := []byte("same input")
	require.Equal(t, Encode(raw, "text/plain"), Encode(raw, "text/plain"))
	require.Equal(t, Payload("data:text/plain;base64,c2FtZSBpbnB1dA=="), Encode(raw, "text/plain"))
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Payload
	}{
		{"empty", ""},
		{"no comma", "data:text/plain;base64"},
		{"two commas", "data:text/plain;base64,aGk=,extra"},
		{"missing data prefix", "text/plain;base64,aGk="},
		{"missing base64 marker", "data:text/plain,aGk="},
		{"invalid base64 body", "data:text/plain;base64,!!!not-base64!!!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode(tc.in)
			require.ErrorIs(t, err, errs.ErrMalformedPayload)
		})
	}
}

func TestSniffMime(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/jpeg", SniffMime(Encode([]byte{1, 2, 3}, "image/jpeg")))
	require.Equal(t, MimeUnknown, SniffMime(""))
	require.Equal(t, MimeUnknown, SniffMime("garbage"))
	require.Equal(t, MimeUnknown, SniffMime("data:;base64,")) // empty mime
	require.Equal(t, MimeUnknown, SniffMime("text/plain;base64,aGk="))
}

func TestPayload_DecodedLen(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 3, 4, 100} {
		raw := bytes.Repeat([]byte{0xaa}, n)
		require.Equal(t, n, Encode(raw, "application/octet-stream").DecodedLen())
	}
	require.Equal(t, 0, Payload("garbage").DecodedLen())
}
