package util

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// MakeDataURL builds a data: URI for an inline image.
func MakeDataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

var b64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// DecodeBase64MaybeDataURL accepts either bare base64 or a data: URI and
// returns the payload together with the MIME type named by the URI, if any.
func DecodeBase64MaybeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var mime string
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		if meta, payload, found := strings.Cut(rest, ","); found {
			mime, _, _ = strings.Cut(meta, ";")
			s = payload
		}
	}

	var firstErr error
	for _, enc := range b64Encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, mime, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, "", firstErr
}

// PickMIME prefers an explicit MIME, then a data URI hint, then sniffs the bytes.
func PickMIME(explicit, hint string, data []byte) string {
	for _, m := range []string{explicit, hint} {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	if len(data) == 0 {
		return "image/jpeg"
	}
	return http.DetectContentType(data)
}
