package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeModel returns a canned response and records what it was sent.
type fakeModel struct {
	resp   string
	err    error
	calls  int
	mime   string
	img    []byte
	prompt string
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Extract(_ context.Context, img []byte, mime, prompt string) (string, error) {
	f.calls++
	f.img, f.mime, f.prompt = img, mime, prompt
	return f.resp, f.err
}

const weekJSON = `{"days":[{"day":"MON","classes":[{"subject":"Math","startTime":"9:00 AM","endTime":"10:00 AM","room":"A1","extra":"ignored"}]},{"day":"TUE","classes":[]}]}`

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func jpegImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFindJSON_IgnoresProse(t *testing.T) {
	resp := "Here you go:\n" + weekJSON + "\nEnjoy!"
	got, err := FindJSON(resp)
	if err != nil {
		t.Fatalf("FindJSON: %v", err)
	}
	if got != weekJSON {
		t.Fatalf("fragment = %q", got)
	}
}

func TestFindJSON_CodeFence(t *testing.T) {
	got, err := FindJSON("```json\n" + weekJSON + "\n```")
	if err != nil {
		t.Fatalf("FindJSON: %v", err)
	}
	if got != weekJSON {
		t.Fatalf("fragment = %q", got)
	}
}

func TestFindJSON_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"blank", "  \n\t", ErrEmptyResponse},
		{"no brace", "I could not read the image.", ErrNoJSONFound},
		{"no closing brace", `{"days": [`, ErrNoJSONFound},
		{"closing before opening", `} then {`, ErrNoJSONFound},
		{"malformed", `Sure: {"days": [}`, ErrInvalidJSON},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := FindJSON(c.in)
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestFindJSON_InvalidCarriesFragment(t *testing.T) {
	_, err := FindJSON(`prefix {"days": [} suffix`)
	var ije *InvalidJSONError
	if !errors.As(err, &ije) {
		t.Fatalf("expected *InvalidJSONError, got %T", err)
	}
	if ije.Fragment != `{"days": [}` {
		t.Fatalf("fragment = %q", ije.Fragment)
	}
}

func TestDecode(t *testing.T) {
	d, err := Decode(weekJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(d.Days) != 2 || d.Days[0].Day != "MON" {
		t.Fatalf("days = %+v", d.Days)
	}
	c := d.Days[0].Classes[0]
	if c.Room == nil || *c.Room != "A1" {
		t.Errorf("room = %v", c.Room)
	}
	if c.Professor != nil {
		t.Errorf("missing professor should stay nil, got %q", *c.Professor)
	}
}

func TestDecode_Errors(t *testing.T) {
	for _, in := range []string{
		`{"days":"monday"}`,
		`{"schedule":[]}`,
		`{"days":[{"day":"MON","classes":[{"startTime":"9:00 AM"}]}]}`,
	} {
		_, err := Decode(in)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%s) = %v, want ErrDecode", in, err)
		}
	}
}

func TestDownscale_PassThrough(t *testing.T) {
	img := pngImage(t, 800, 600)
	out, mime, err := Downscale(img)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, img) {
		t.Error("in-bounds image should be returned unchanged")
	}
	if mime != "image/png" {
		t.Errorf("mime = %s", mime)
	}
}

func TestDownscale_Shrinks(t *testing.T) {
	cases := []struct {
		name     string
		img      []byte
		w, h     int
		wantMIME string
	}{
		{"wide png", pngImage(t, 2048, 1000), 1024, 500, "image/png"},
		{"tall jpeg", jpegImage(t, 1000, 2048), 500, 1024, "image/jpeg"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, mime, err := Downscale(c.img)
			if err != nil {
				t.Fatal(err)
			}
			if mime != c.wantMIME {
				t.Errorf("mime = %s", mime)
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != c.w || cfg.Height != c.h {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, c.w, c.h)
			}
		})
	}
}

func TestDownscale_NotAnImage(t *testing.T) {
	_, _, err := Downscale([]byte("definitely not pixels"))
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("got %v", err)
	}
}

func TestDownscale_TruncatedImage(t *testing.T) {
	img := pngImage(t, 200, 100)
	m := &fakeModel{resp: weekJSON}
	_, err := New(m, nil).Run(context.Background(), img[:40])
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("got %v", err)
	}
	if m.calls != 0 {
		t.Fatal("model should not see a truncated image")
	}
}

func TestDownscale_KeepsFormat(t *testing.T) {
	img := jpegImage(t, 300, 200)
	out, mime, err := Downscale(img)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/jpeg" || !bytes.Equal(out, img) {
		t.Fatalf("mime = %s, unchanged = %v", mime, bytes.Equal(out, img))
	}
}

func TestPipeline_Run(t *testing.T) {
	m := &fakeModel{resp: "Here you go:\n" + weekJSON + "\nEnjoy!"}
	p := New(m, nil)
	d, err := p.Run(context.Background(), pngImage(t, 100, 50))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(d.Days) != 2 {
		t.Fatalf("days = %d", len(d.Days))
	}
	if m.calls != 1 {
		t.Errorf("model called %d times", m.calls)
	}
	if m.mime != "image/png" || m.prompt != Prompt {
		t.Errorf("unexpected request: mime=%s", m.mime)
	}
}

func TestPipeline_NoJSON(t *testing.T) {
	m := &fakeModel{resp: "Sorry, I can't help with that."}
	d, err := New(m, nil).Run(context.Background(), pngImage(t, 10, 10))
	if d != nil {
		t.Fatal("expected no result")
	}
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("got %v", err)
	}
}

func TestPipeline_ModelErrorNotRetried(t *testing.T) {
	m := &fakeModel{err: errors.New("503 unavailable")}
	_, err := New(m, nil).Run(context.Background(), pngImage(t, 10, 10))
	if !errors.Is(err, ErrModel) {
		t.Fatalf("got %v", err)
	}
	if m.calls != 1 {
		t.Fatalf("model called %d times, want 1", m.calls)
	}
}

func TestPipeline_BadImageSkipsModel(t *testing.T) {
	m := &fakeModel{resp: weekJSON}
	_, err := New(m, nil).Run(context.Background(), []byte("nope"))
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("got %v", err)
	}
	if m.calls != 0 {
		t.Fatal("model should not be called for an undecodable image")
	}
}

func TestWithPromptAndLoadPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(path, []byte("  custom prompt \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPrompt(path)
	if err != nil || p != "custom prompt" {
		t.Fatalf("LoadPrompt = %q, %v", p, err)
	}
	if def, _ := LoadPrompt(""); def != Prompt {
		t.Fatal("empty path should give the default prompt")
	}
	if _, err := LoadPrompt(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("missing file should fail")
	}

	m := &fakeModel{resp: weekJSON}
	if _, err := New(m, nil, WithPrompt(p)).Run(context.Background(), pngImage(t, 4, 4)); err != nil {
		t.Fatal(err)
	}
	if m.prompt != "custom prompt" {
		t.Fatalf("prompt = %q", m.prompt)
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Error("nil error should have no message")
	}
	if got := Message(&DecodeError{Err: errors.New("x")}); !strings.Contains(got, "timetable") {
		t.Errorf("decode message = %q", got)
	}
	if got := Message(ErrNoJSONFound); got == "" {
		t.Error("expected message")
	}
}
