package util

import (
	"encoding/base64"
	"testing"
)

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	b64 := base64.StdEncoding.EncodeToString(payload)

	got, mime, err := DecodeBase64MaybeDataURL("data:image/png;base64," + b64)
	if err != nil || string(got) != string(payload) || mime != "image/png" {
		t.Fatalf("data url: %v %q %v", got, mime, err)
	}

	got, mime, err = DecodeBase64MaybeDataURL("  " + b64 + "\n")
	if err != nil || string(got) != string(payload) || mime != "" {
		t.Fatalf("plain: %v %q %v", got, mime, err)
	}

	got, _, err = DecodeBase64MaybeDataURL(base64.RawURLEncoding.EncodeToString(payload))
	if err != nil || string(got) != string(payload) {
		t.Fatalf("unpadded: %v %v", got, err)
	}

	if _, _, err := DecodeBase64MaybeDataURL("%%%"); err == nil {
		t.Fatal("expected error for garbage")
	}
}

func TestPickMIME(t *testing.T) {
	if PickMIME("image/webp", "image/png", nil) != "image/webp" {
		t.Error("explicit wins")
	}
	if PickMIME("", "image/png", []byte{0xFF, 0xD8}) != "image/png" {
		t.Error("hint beats sniffing")
	}
	if PickMIME("", "", nil) != "image/jpeg" {
		t.Error("default is jpeg")
	}
	if PickMIME("", "", []byte("\x89PNG\r\n\x1a\n")) != "image/png" {
		t.Error("png bytes are sniffed")
	}
}
